package operators_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/on-the-ground/memo_ive_go/operators"
	"github.com/on-the-ground/memo_ive_go/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fold(t *testing.T, op operators.Operator, values ...value.Value) value.Value {
	t.Helper()
	op.Initialize()
	for _, v := range values {
		require.NoError(t, op.Increment(v))
	}
	return op.Result()
}

func TestOperators_EmptyResults(t *testing.T) {
	tests := []struct {
		name string
		op   operators.Operator
		want value.Value
	}{
		{"sum", operators.NewSum(), 0.0},
		{"average", operators.NewAverage(), 0.0},
		{"concatenate", operators.NewConcatenate(), []value.Value{}},
		{"count", operators.NewCount(), 0},
		{"min", operators.NewMin(), nil},
		{"max", operators.NewMax(), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.Result(), "result before Initialize")
			assert.Equal(t, tt.want, fold(t, tt.op), "result after Initialize")
		})
	}
}

func TestSum(t *testing.T) {
	assert.Equal(t, 6.0, fold(t, operators.NewSum(), 1, 2, 3))
	assert.Equal(t, 1.5, fold(t, operators.NewSum(), 1, 0.5))
	assert.Equal(t,
		[]value.Value{4.0, []value.Value{6.0}},
		fold(t, operators.NewSum(), []value.Value{1, []int{2}}, []value.Value{3.0, []float64{4}}),
	)
}

func TestAverage_Scalars(t *testing.T) {
	assert.Equal(t, 1.0, fold(t, operators.NewAverage(), 0, 1, 2))
}

func TestAverage_NestedComponentWise(t *testing.T) {
	got := fold(t, operators.NewAverage(),
		[][]float64{{1, 2}, {3, 4}},
		[][]float64{{3, 4}, {5, 6}},
		[][]int{{2, 3}, {4, 5}},
	)
	want := []value.Value{
		[]value.Value{2.0, 3.0},
		[]value.Value{4.0, 5.0},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("average mismatch (-want +got):\n%s", diff)
	}
}

func TestAverage_ThirdOfTenths(t *testing.T) {
	got := fold(t, operators.NewAverage(), []float64{0.1, 0.2}, []float64{0.2, 0.4}, []float64{0.3, 0.6})
	want := []value.Value{0.2, 0.4}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("average mismatch (-want +got):\n%s", diff)
	}
}

func TestAverage_ShapeMismatch(t *testing.T) {
	avg := operators.NewAverage()
	avg.Initialize()
	require.NoError(t, avg.Increment([]value.Value{1, []int{2, 3}}))

	err := avg.Increment([]value.Value{1, []int{2}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, operators.ErrShapeMismatch))

	var shape *operators.ShapeError
	require.True(t, errors.As(err, &shape))
	assert.Equal(t, "[1]", shape.Path)
	assert.Equal(t, "sequence of 2", shape.Want)
	assert.Equal(t, "sequence of 1", shape.Got)

	err = avg.Increment(5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at root")
}

func TestAverage_NotNumeric(t *testing.T) {
	avg := operators.NewAverage()
	avg.Initialize()
	err := avg.Increment("abc")
	assert.ErrorIs(t, err, value.ErrNotNumeric)
}

func TestAverage_InitializeResets(t *testing.T) {
	avg := operators.NewAverage()
	assert.Equal(t, 2.0, fold(t, avg, 1, 3))
	// A new shape is allowed after Initialize.
	assert.Equal(t, []value.Value{5.0}, fold(t, avg, []int{5}))
}

func TestConcatenate_PreservesOrder(t *testing.T) {
	assert.Equal(t, []value.Value{"c", "a", "b"}, fold(t, operators.NewConcatenate(), "c", "a", "b"))
}

func TestExtremum(t *testing.T) {
	assert.Equal(t, -2, fold(t, operators.NewMin(), 3, -2, 7))
	assert.Equal(t, 7.5, fold(t, operators.NewMax(), 3, -2, 7.5))
	assert.ErrorIs(t, operators.NewMax().Increment("x"), value.ErrNotNumeric)
}

func TestCount(t *testing.T) {
	assert.Equal(t, 3, fold(t, operators.NewCount(), "a", nil, 1))
}

func TestCustom(t *testing.T) {
	product := operators.NewCustom(
		func() value.Value { return 1 },
		func(acc, v value.Value) (value.Value, error) {
			n, ok := v.(int)
			if !ok {
				return nil, errors.New("int required")
			}
			return acc.(int) * n, nil
		},
	)
	assert.Equal(t, 24, fold(t, product, 2, 3, 4))
	assert.Equal(t, 1, fold(t, product))

	product.Initialize()
	assert.Error(t, product.Increment("x"))
}

func TestKind(t *testing.T) {
	k, err := operators.ParseKind(" Average ")
	require.NoError(t, err)
	assert.Equal(t, operators.KindAverage, k)
	assert.IsType(t, &operators.Average{}, operators.New(k))

	_, err = operators.ParseKind("median")
	assert.ErrorIs(t, err, operators.ErrUnknownKind)
}
