package augment

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/e8yes/gomokubatch/internal/dataset"
	"github.com/e8yes/gomokubatch/internal/domain"
	"github.com/e8yes/gomokubatch/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomExample(rnd *rand.Rand) dataset.Example {
	var e dataset.Example
	for i := range e.Board.Data {
		e.Board.Data[i] = float32(rnd.Intn(3) - 1)
	}
	e.StoneType = tensor.Uniform(float32(rnd.Intn(3) - 1))
	e.Phases[rnd.Intn(domain.NumPhases)].Fill(1)
	for i := range e.Policy {
		e.Policy[i] = rnd.Float32()
	}
	e.Value = rnd.Float32()*2 - 1
	return e
}

func randomExamples(rnd *rand.Rand, n int) []dataset.Example {
	var result = make([]dataset.Example, n)
	for i := range result {
		result[i] = randomExample(rnd)
	}
	return result
}

// scenario is a lone own stone in the corner with all policy mass on it.
func scenario(phase domain.GamePhase) dataset.Example {
	var e dataset.Example
	e.Board.Set(0, 0, 1)
	e.Phases[phase].Fill(1)
	e.StoneType = tensor.Uniform(1)
	e.Policy[0+11*0] = 1
	e.Value = 0.7
	return e
}

func TestBatchSizeLaw(t *testing.T) {
	var rnd = rand.New(rand.NewSource(6))
	for _, n := range []int{1, 2, 5, 16} {
		var examples = randomExamples(rnd, n)
		assert.Len(t, Augment(examples, true), 16*n)

		var same = Augment(examples, false)
		assert.Equal(t, examples, same)
	}
	assert.Empty(t, Augment(nil, true))
}

func TestDisabledReturnsCopy(t *testing.T) {
	var rnd = rand.New(rand.NewSource(7))
	var examples = randomExamples(rnd, 2)
	var out = Augment(examples, false)
	out[0].Value = 42
	assert.NotEqual(t, float32(42), examples[0].Value)
}

func TestAugmentLeavesInputUntouched(t *testing.T) {
	var rnd = rand.New(rand.NewSource(8))
	var examples = randomExamples(rnd, 3)
	var before = make([]dataset.Example, len(examples))
	copy(before, examples)
	_ = Augment(examples, true)
	assert.Equal(t, before, examples)
}

func TestValueAndPhaseInvariance(t *testing.T) {
	var rnd = rand.New(rand.NewSource(9))
	var examples = randomExamples(rnd, 4)
	var out = Augment(examples, true)
	for k := range out {
		var v = VariantOf(k, len(examples))
		var src = &examples[v.Source]
		assert.Equal(t, src.Value, out[k].Value, "index %v", k)
		assert.Equal(t, src.Phases, out[k].Phases, "index %v", k)
		assert.Equal(t, src.Phase(), out[k].Phase(), "index %v", k)
	}
}

func TestHalvesAreAligned(t *testing.T) {
	var rnd = rand.New(rand.NewSource(10))
	var n = 3
	var examples = randomExamples(rnd, n)
	var out = Augment(examples, true)
	var half = 8 * n
	for k := 0; k < half; k++ {
		var a, b = VariantOf(k, n), VariantOf(k+half, n)
		assert.Equal(t, a.Source, b.Source)
		assert.Equal(t, a.Symmetry, b.Symmetry)
		assert.False(t, a.Inverted)
		assert.True(t, b.Inverted)
		assert.Equal(t, InvertColor(out[k]), out[k+half], "index %v", k)
	}
}

func TestLayoutMatchesVariants(t *testing.T) {
	var rnd = rand.New(rand.NewSource(11))
	var n = 2
	var examples = randomExamples(rnd, n)
	var out = Augment(examples, true)
	for k := range out {
		var v = VariantOf(k, n)
		var want = Transform(examples[v.Source], v.Symmetry)
		if v.Inverted {
			want = InvertColor(want)
		}
		assert.Equal(t, want, out[k], "index %v", k)
	}
	// symmetry-major inside each half, as the first half reads I..I, R..R, ...
	assert.Equal(t, tensor.Identity, VariantOf(1, n).Symmetry)
	assert.Equal(t, tensor.Rotate90, VariantOf(2, n).Symmetry)
}

func TestColorInversionInvolution(t *testing.T) {
	var rnd = rand.New(rand.NewSource(12))
	for i := 0; i < 20; i++ {
		var e = randomExample(rnd)
		assert.Equal(t, e, InvertColor(InvertColor(e)))
	}
}

func TestColorInversionLogits(t *testing.T) {
	var e = scenario(domain.PhaseStoneTypeDecision)
	e.Policy[domain.Swap2ChooseWhite] = 0.6
	e.Policy[domain.Swap2ChooseBlack] = 0.3
	e.Policy[domain.Swap2ContinuePlacing] = 0.1
	e.Policy[domain.StoneChooseWhite] = 0.8
	e.Policy[domain.StoneChooseBlack] = 0.2

	var inv = InvertColor(e)
	assert.Equal(t, float32(0.3), inv.Policy[domain.Swap2ChooseWhite])
	assert.Equal(t, float32(0.6), inv.Policy[domain.Swap2ChooseBlack])
	assert.Equal(t, float32(0.1), inv.Policy[domain.Swap2ContinuePlacing])
	assert.Equal(t, float32(0.2), inv.Policy[domain.StoneChooseWhite])
	assert.Equal(t, float32(0.8), inv.Policy[domain.StoneChooseBlack])
	assert.Equal(t, e.Policy[:domain.BoardCells], inv.Policy[:domain.BoardCells])
	assert.Equal(t, float32(-1), inv.Board.Get(0, 0))
	assert.True(t, inv.StoneType.IsUniform(-1))
	assert.Equal(t, e.Value, inv.Value)
}

func TestTransformKeepsDecisionLogits(t *testing.T) {
	var rnd = rand.New(rand.NewSource(13))
	var e = randomExample(rnd)
	for _, s := range tensor.Symmetries {
		var t2 = Transform(e, s)
		assert.Equal(t, e.Policy[domain.BoardCells:], t2.Policy[domain.BoardCells:], s.String())
		assert.Equal(t, e.StoneType, t2.StoneType, s.String())
	}
}

func TestTransformMovesBoardAndPolicyTogether(t *testing.T) {
	var rnd = rand.New(rand.NewSource(14))
	var e = randomExample(rnd)
	for _, s := range tensor.Symmetries {
		var out = Transform(e, s)
		for y := 0; y < domain.BoardSize; y++ {
			for x := 0; x < domain.BoardSize; x++ {
				var nx, ny = s.Map(x, y)
				require.Equal(t, e.Board.Get(x, y), out.Board.Get(nx, ny))
				require.Equal(t, e.Policy[x+11*y], out.Policy[nx+11*ny])
			}
		}
	}
}

func TestScenario(t *testing.T) {
	var out = Augment([]dataset.Example{scenario(domain.PhaseStandardGomoku)}, true)
	require.Len(t, out, 16)

	var r = out[tensor.Rotate90.Index()]
	var x, y = tensor.Rotate90.Map(0, 0)
	assert.Equal(t, 10, x)
	assert.Equal(t, 0, y)
	assert.Equal(t, float32(1), r.Board.Get(10, 0))
	assert.Equal(t, float32(0), r.Board.Get(0, 0))
	assert.Equal(t, 10+11*0, r.Policy.ArgMax())
	assert.Equal(t, float32(0.7), r.Value)

	for k := 8; k < 16; k++ {
		var v = VariantOf(k, 1)
		var cx, cy = v.Symmetry.Map(0, 0)
		assert.Equal(t, float32(-1), out[k].Board.Get(cx, cy), "index %v", k)
		assert.Equal(t, cx+11*cy, out[k].Policy.ArgMax(), "index %v", k)
	}
}

func TestScenarioSwap2Decision(t *testing.T) {
	var e = scenario(domain.PhaseSwap2Decision)
	e.Policy[0] = 0
	e.Policy[domain.Swap2ChooseWhite] = 0.6
	e.Policy[domain.Swap2ChooseBlack] = 0.3
	e.Policy[domain.Swap2ContinuePlacing] = 0.1

	var out = Augment([]dataset.Example{e}, true)
	var want = []float32{0.6, 0.3, 0.1}
	var wantInverted = []float32{0.3, 0.6, 0.1}
	for k := 0; k < 8; k++ {
		assert.Equal(t, want, out[k].Policy[121:124], "index %v", k)
		assert.Equal(t, wantInverted, out[k+8].Policy[121:124], "index %v", k+8)
	}
}

func TestEngineMatchesSequential(t *testing.T) {
	var rnd = rand.New(rand.NewSource(15))
	var examples = randomExamples(rnd, 13)
	var want = Augment(examples, true)

	for _, workers := range []int{1, 2, 8} {
		got, err := NewEngine(workers).Augment(context.Background(), examples, true)
		require.NoError(t, err)
		assert.Equal(t, want, got, "workers %v", workers)
	}

	got, err := NewEngine(4).Augment(context.Background(), examples, false)
	require.NoError(t, err)
	assert.Equal(t, examples, got)
}

func TestEngineCanceled(t *testing.T) {
	var rnd = rand.New(rand.NewSource(16))
	var ctx, cancel = context.WithCancel(context.Background())
	cancel()
	_, err := NewEngine(4).Augment(ctx, randomExamples(rnd, 4), true)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBatchColumns(t *testing.T) {
	var rnd = rand.New(rand.NewSource(17))
	var examples = randomExamples(rnd, 3)
	var b = NewBatch(examples)
	require.NoError(t, b.Validate())
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, examples, b.Examples())

	augmented, err := AugmentBatch(b, true)
	require.NoError(t, err)
	assert.Equal(t, 48, augmented.Len())
	for p := range augmented.Phases {
		assert.Len(t, augmented.Phases[p], 48)
	}
	assert.Equal(t, Augment(examples, true), augmented.Examples())
}

func TestFromTensorsShapeErrors(t *testing.T) {
	var plane = make([]float32, 121)
	var policy = make([]float32, 126)
	var phases [domain.NumPhases][][]float32
	for p := range phases {
		phases[p] = [][]float32{plane}
	}

	b, err := FromTensors([][]float32{plane}, phases, [][]float32{plane}, [][]float32{policy}, []float32{0.5})
	require.NoError(t, err)
	assert.Equal(t, 1, b.Len())

	_, err = FromTensors([][]float32{plane[:110]}, phases, [][]float32{plane}, [][]float32{policy}, []float32{0.5})
	assert.True(t, errors.Is(err, domain.ErrShape))

	_, err = FromTensors([][]float32{plane}, phases, [][]float32{plane}, [][]float32{policy[:121]}, []float32{0.5})
	assert.True(t, errors.Is(err, domain.ErrPolicyLength))

	var badPhases = phases
	badPhases[2] = [][]float32{make([]float32, 11)}
	_, err = FromTensors([][]float32{plane}, badPhases, [][]float32{plane}, [][]float32{policy}, []float32{0.5})
	assert.True(t, errors.Is(err, domain.ErrShape))

	var broken = NewBatch(nil)
	broken.Values = []float32{1}
	_, err = AugmentBatch(broken, true)
	assert.True(t, errors.Is(err, domain.ErrShape))
}
