// Package modelconfig loads the KL10 model feature-flag set that gates
// the .IF/.IFNOT conditionals in the CRAM/DRAM definitions text (see
// ucode/definitions). Each flag corresponds to a hardware option
// present on some KL10 builds and not others (paging microcode, the
// extended-addressing instructions, front-end multiprocessor support,
// and so on).
package modelconfig

import (
	"github.com/BurntSushi/toml"
)

// Flags is the set of named model options a definitions load is
// conditioned on. The names table below maps each field to the flag
// name used verbatim in the vendor .mic/.dcode text, so a Flags value
// can be turned directly into the map[string]bool that
// definitions.Parse expects.
type Flags struct {
	SnormOpt bool `toml:"snorm_opt"`
	XAddr    bool `toml:"xaddr"`
	EPT540   bool `toml:"ept540"`
	LongPC   bool `toml:"long_pc"`
	ModelB   bool `toml:"model_b"`
	KLPage   bool `toml:"klpage"`
	FPLong   bool `toml:"fplong"`
	BLTPXCT  bool `toml:"blt_pxct"`
	SMP      bool `toml:"smp"`
	ExtExp   bool `toml:"extexp"`
	Multi    bool `toml:"multi"`
	NoCST    bool `toml:"nocst"`
	OWGBP    bool `toml:"owgbp"`
	IPA20    bool `toml:"ipa20"`
	GFTCnv   bool `toml:"gftcnv"`
}

// names maps each Flags field to the flag name the definitions
// conditionals reference, kept in one place so Map stays in sync with
// the struct tags above.
var names = []struct {
	name string
	get  func(*Flags) bool
}{
	{"SNORM.OPT", func(f *Flags) bool { return f.SnormOpt }},
	{"XADDR", func(f *Flags) bool { return f.XAddr }},
	{"EPT540", func(f *Flags) bool { return f.EPT540 }},
	{"LONG.PC", func(f *Flags) bool { return f.LongPC }},
	{"MODEL.B", func(f *Flags) bool { return f.ModelB }},
	{"KLPAGE", func(f *Flags) bool { return f.KLPage }},
	{"FPLONG", func(f *Flags) bool { return f.FPLong }},
	{"BLT.PXCT", func(f *Flags) bool { return f.BLTPXCT }},
	{"SMP", func(f *Flags) bool { return f.SMP }},
	{"EXTEXP", func(f *Flags) bool { return f.ExtExp }},
	{"MULTI", func(f *Flags) bool { return f.Multi }},
	{"NOCST", func(f *Flags) bool { return f.NoCST }},
	{"OWGBP", func(f *Flags) bool { return f.OWGBP }},
	{"IPA20", func(f *Flags) bool { return f.IPA20 }},
	{"GFTCNV", func(f *Flags) bool { return f.GFTCnv }},
}

// DefaultFlags returns the baseline KL10 model: paging and extended
// addressing on, the rest of the optional hardware off.
func DefaultFlags() Flags {
	return Flags{
		XAddr:  true,
		KLPage: true,
	}
}

// Map turns f into the map[string]bool form ucode/definitions.Parse
// consumes.
func (f Flags) Map() map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n.name] = n.get(&f)
	}
	return m
}

// Load reads a TOML model-configuration file, starting from
// DefaultFlags and overriding whatever the file sets.
func Load(path string) (Flags, error) {
	flags := DefaultFlags()
	_, err := toml.DecodeFile(path, &flags)
	if err != nil {
		return Flags{}, err
	}
	return flags, nil
}
