package preprocess

import (
	"math"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScaler() *StandardScaler {
	return &StandardScaler{
		Mean:  []float64{1, 2, 3},
		Scale: []float64{2, 0, 0.5},
	}
}

func TestLoadScaler(t *testing.T) {
	scaler, err := LoadScaler(strings.NewReader(`{"mean":[1,2],"scale":[3,4]}`))
	require.NoError(t, err)
	assert.Equal(t, 2, scaler.NumFeatures())
	assert.Equal(t, []float64{3, 4}, scaler.Scale)

	_, err = LoadScaler(strings.NewReader(`{"mean":[1,2],"scale":[3]}`))
	assert.Error(t, err)

	_, err = LoadScaler(strings.NewReader(`{}`))
	assert.Error(t, err)

	_, err = LoadScaler(strings.NewReader(`not json`))
	assert.Error(t, err)
}

func TestStandardScalerTransform(t *testing.T) {
	scaler := testScaler()
	in := []float64{5, 7, 4}
	out, err := scaler.Transform(in)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 5, 2}, out)
	// 输入不被修改
	assert.Equal(t, []float64{5, 7, 4}, in)

	_, err = scaler.Transform([]float64{1, 2})
	assert.Error(t, err)

	meanOnly := &StandardScaler{Mean: []float64{1, 1}}
	out, err = meanOnly.Transform([]float64{3, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, -1}, out)
}

func TestDefaultPreprocess(t *testing.T) {
	p := Default(testScaler())
	out, err := p.Transform([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, out)

	_, err = p.Transform([]float64{math.NaN(), 2, 3})
	assert.EqualError(t, err, "Input X contains NaN.")

	_, err = p.Transform([]float64{1, math.Inf(-1), 3})
	assert.Error(t, err)

	_, err = p.Transform([]float64{1, 2, 3, 4})
	assert.Error(t, err)
}

func TestNormalizeCSV(t *testing.T) {
	input := "a,b,c\n5,7,4\n1,2,3\n"
	builder := &strings.Builder{}
	err := NormalizeCSV(strings.NewReader(input), builder, Default(testScaler()), 2)
	require.NoError(t, err)
	assert.Equal(t, "a,b,c\n2.00,5.00,2.00\n0.00,0.00,0.00\n", builder.String())

	/*
		没有表头
	*/
	builder.Reset()
	err = NormalizeCSV(strings.NewReader("5,7,4\n"), builder, testScaler(), 1)
	require.NoError(t, err)
	assert.Equal(t, "2.0,5.0,2.0\n", builder.String())

	/*
		存在错误数据
	*/
	err = NormalizeCSV(strings.NewReader("a,b,c\n1,x,3\n"), os.Stdout, testScaler(), 2)
	assert.Error(t, err)

	/*
		列数不对
	*/
	err = NormalizeCSV(strings.NewReader("1,2\n"), os.Stdout, testScaler(), 2)
	assert.Error(t, err)

	/*
		空输入
	*/
	err = NormalizeCSV(strings.NewReader(""), os.Stdout, testScaler(), 2)
	assert.Error(t, err)
}
