package ebox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcornwell/kl10/ebox/cram"
	"github.com/rcornwell/kl10/ebox/mbox"
	"github.com/rcornwell/kl10/ebox/word"
	"github.com/rcornwell/kl10/ucode/definitions"
)

// testFieldCatalog declares every CRAM/DRAM field Cycle resolves by
// name, laid out end to end across the 84-bit microword (field values
// mirror the mux package's own selector enumeration, so a selector
// constant in a test case is also the field's encoded bit pattern).
func testFieldCatalog(t *testing.T) *cram.FieldCatalog {
	t.Helper()
	text := `
.UCODE
J/=<0:9>
SKIP/=<10:13>
 RUN=0
 KERNEL=1
 USER=2
 PUBLIC=3
 FETCH=4
 RPW REF=5
 PI CYCLE=6
 -EBUS GRANT=7
 -EBUS XFER=8
 INTRPT=9
 IO LEGAL=10
 P!S XCT=11
 -VMA SEC0=12
 AC REF=13
 -MTR REQ=14
 -START=15
DISP/=<14:18>
AD/=<19:24>
ADA/=<25:27>
ADB/=<28:31>
ADXA/=<32:34>
ADXB/=<35:37>
SCAD/=<38:43>
SCADA/=<44:47>
SCADB/=<48:51>
MQM/=<52:54>
SCM/=<55:58>
AR CTL/=<59:61>
 HOLD=0
 AR LOAD=1
 ARR LOAD=2
 ARX LOAD=3
 SH LOAD=4
 BR LOAD=5
 BRX LOAD=6
SH/=<62:64>
 HOLD=0
 COMBINED=1
 AR=2
 ARX=3
 ROTATE=4
FE CTL/=<65:66>
 HOLD=0
 LOAD=1
 DEC=2
SPEC/=<67:67>
 NOP=0
 LOAD PC=1
COND/=<68:69>
 NOP=0
 LOAD IR=1
 FM WRITE=2
 LOAD BLOCK=3
VMA/=<70:73>
 HOLD=0
 PC=1
 PC+1=2
 AD=3
 MAGIC=4
 MAGIC+TRAP=5
 MODE=6
 AR32-35=7
 PI*2=8
MEM/=<74:77>
 NOP=0
 A RD=1
 B WRITE=2
 LOAD AR=3
 LOAD ARX=4
 RW=5
 RPW=6
 WRITE=7
 IFET=8
 FETCH=9
 ARL IND=10
 REG FUNC=11
 AD FUNC=12
 EA CALC=13
FM ADR/=<78:80>
MAGIC NUMBER/=<81:83>
.DCODE
DR J/=<0:3>
DR B/=<4:6>
`
	cat, err := definitions.Parse(strings.NewReader(text), nil)
	require.NoError(t, err)
	return cram.NewFieldCatalog(cat)
}

func newTestEBOX(t *testing.T) (*EBOX, *cram.Store) {
	t.Helper()
	store := &cram.Store{}
	fields := testFieldCatalog(t)
	mem, err := mbox.New(64)
	require.NoError(t, err)
	e := New(store, fields, mem)
	e.Reset()
	return e, store
}

func TestResetStartsAtZero(t *testing.T) {
	e, _ := newTestEBOX(t)
	assert.Equal(t, uint16(0), e.cradr)
	assert.Equal(t, uint64(0), e.Cycles)
}

func TestCycleAdvancesCRADRFromJ(t *testing.T) {
	e, store := newTestEBOX(t)

	var cr0 word.Word84
	cr0 = word.Insert84(cr0, 5, 0, 9) // J = 5
	store.CRAM[0] = cr0

	require.NoError(t, e.Cycle())
	assert.Equal(t, uint16(5), e.cradr)
	assert.Equal(t, uint64(1), e.Cycles)
}

func TestCycleEvaluatesADIntoAR(t *testing.T) {
	e, store := newTestEBOX(t)

	var cr0 word.Word84
	// ADA=selAR(1), ADB=selZero(0), AD=A+1(2), AR CTL=AR LOAD(1):
	// AR <- AR+1, routed through the AD mux and AR CTL's load enable.
	cr0 = word.Insert84(cr0, 1, 25, 27)
	cr0 = word.Insert84(cr0, 2, 19, 24)
	cr0 = word.Insert84(cr0, 1, 59, 61)
	store.CRAM[0] = cr0

	e.Regs.AR = 41
	require.NoError(t, e.Cycle())
	assert.Equal(t, word.Word36(42), e.Regs.AR)
}

func TestCycleEvaluatesADXIntoARX(t *testing.T) {
	e, store := newTestEBOX(t)

	var cr0 word.Word84
	// ADXA=selARX(2), ADXB=selBRX(4), AD=A+B(3), AR CTL=ARX LOAD(3):
	// ARX <- ARX+BRX, computed at ADX's own 36-bit width (wraps on
	// overflow) rather than reusing AD's 38-bit result.
	cr0 = word.Insert84(cr0, 2, 32, 34)
	cr0 = word.Insert84(cr0, 4, 35, 37)
	cr0 = word.Insert84(cr0, 3, 19, 24)
	cr0 = word.Insert84(cr0, 3, 59, 61)
	store.CRAM[0] = cr0

	e.Regs.ARX = word.Mask36
	e.Regs.BRX = 1
	require.NoError(t, e.Cycle())
	assert.Equal(t, word.Word36(0), e.Regs.ARX, "ARX+1 wraps at 36 bits")
}

func TestCycleArrLoadFromMb(t *testing.T) {
	e, store := newTestEBOX(t)

	var cr0 word.Word84
	cr0 = word.Insert84(cr0, 1, 74, 77) // MEM = A RD
	cr0 = word.Insert84(cr0, 2, 59, 61) // AR CTL = ARR LOAD
	store.CRAM[0] = cr0

	e.Regs.VMA = 5
	require.NoError(t, e.Mem.Write(5, 0o700200))

	require.NoError(t, e.Cycle())
	assert.Equal(t, word.Word36(0o700200), e.Regs.ARR())
}

func TestCycleMemWrite(t *testing.T) {
	e, store := newTestEBOX(t)

	var cr0 word.Word84
	cr0 = word.Insert84(cr0, 7, 74, 77) // MEM = WRITE
	store.CRAM[0] = cr0

	e.Regs.VMA = 10
	e.Regs.AR = 0o777
	require.NoError(t, e.Cycle())

	got, err := e.Mem.Read(10)
	require.NoError(t, err)
	assert.Equal(t, word.Word36(0o777), got)
}

func TestCycleMemRWSchedulesPending(t *testing.T) {
	e, store := newTestEBOX(t)
	e.MemLatency = 2

	var cr0 word.Word84
	cr0 = word.Insert84(cr0, 5, 74, 77) // MEM = RW
	store.CRAM[0] = cr0

	e.Regs.VMA = 3
	require.NoError(t, e.Mem.Write(3, 0o42))

	require.NoError(t, e.Cycle())
	assert.True(t, e.Flags.RPWRef)
	assert.True(t, e.Pending.Outstanding(), "RW with MemLatency>0 doesn't settle same cycle")
	assert.Equal(t, word.Word36(0), e.mb, "completion hasn't run yet")

	e.Pending.Advance(1)
	assert.False(t, e.Pending.Outstanding())
	assert.Equal(t, word.Word36(0o42), e.mb)
}

func TestCycleSkipNamedCondition(t *testing.T) {
	cases := []struct {
		start    bool
		wantCrad uint16
	}{
		{start: false, wantCrad: 3}, // -START true (Start deasserted): skip fires, OR's in bit 0
		{start: true, wantCrad: 2},  // -START false (Start asserted): no skip
	}
	for _, c := range cases {
		e, store := newTestEBOX(t)
		var cr0 word.Word84
		cr0 = word.Insert84(cr0, 2, 0, 9)   // J = 2
		cr0 = word.Insert84(cr0, 15, 10, 13) // SKIP = -START
		store.CRAM[0] = cr0

		e.Flags.Start = c.start
		require.NoError(t, e.Cycle())
		assert.Equal(t, c.wantCrad, e.cradr)
	}
}

func TestCycleShifterRotateWiring(t *testing.T) {
	e, store := newTestEBOX(t)

	var cr0 word.Word84
	cr0 = word.Insert84(cr0, 4, 62, 64) // SH = ROTATE
	cr0 = word.Insert84(cr0, 4, 59, 61) // AR CTL = SH LOAD
	store.CRAM[0] = cr0

	e.Regs.AR = word.Insert36(word.Insert36(0, 0o17, 0, 17), 0o200, 18, 35)
	require.NoError(t, e.Cycle())

	want := word.Insert36(word.Insert36(0, 0o200, 0, 17), 0o17, 18, 35)
	assert.Equal(t, want, e.Regs.AR)
}

func TestCycleFmWrite(t *testing.T) {
	e, store := newTestEBOX(t)

	var cr0 word.Word84
	cr0 = word.Insert84(cr0, 2, 68, 69) // COND = FM WRITE
	store.CRAM[0] = cr0

	e.Regs.AR = 0o123
	require.NoError(t, e.Cycle())

	got, err := e.FM.Read(0, 0)
	require.NoError(t, err)
	assert.Equal(t, word.Word36(0o123), got)
}

func TestCycleLoadIR(t *testing.T) {
	e, store := newTestEBOX(t)

	var cr0 word.Word84
	cr0 = word.Insert84(cr0, 1, 74, 77) // MEM = A RD
	cr0 = word.Insert84(cr0, 1, 68, 69) // COND = LOAD IR
	store.CRAM[0] = cr0

	e.Regs.VMA = 0
	instr := word.Insert36(0, 5, 9, 12) // AC field = 5
	require.NoError(t, e.Mem.Write(0, instr))

	require.NoError(t, e.Cycle())
	assert.Equal(t, instr, e.Regs.IR)
	assert.Equal(t, uint8(5), e.Regs.IRAC)
}

func TestCycleVmaPcPlus1AndLoadPc(t *testing.T) {
	e, store := newTestEBOX(t)

	var cr0 word.Word84
	cr0 = word.Insert84(cr0, 2, 70, 73) // VMA = PC+1
	cr0 = word.Insert84(cr0, 1, 67, 67) // SPEC = LOAD PC
	store.CRAM[0] = cr0

	e.Regs.PC = 100
	require.NoError(t, e.Cycle())
	assert.Equal(t, word.Word36(101), e.Regs.VMA)
	assert.Equal(t, word.Word36(101), e.Regs.PC)
}

func TestCrFieldUnknownFieldIsFatal(t *testing.T) {
	e, _ := newTestEBOX(t)
	_, err := e.crField("NO SUCH FIELD")
	assert.Error(t, err)
}

func TestRunAndHaltLifecycle(t *testing.T) {
	e, _ := newTestEBOX(t)
	e.Run()
	e.Halt()
	assert.False(t, e.running)
}
