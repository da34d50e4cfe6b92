package preprocess

// Preprocessor 对单个特征向量进行变换，返回新的向量，不修改输入
type Preprocessor interface {
	Transform(vec []float64) ([]float64, error)
}

type defaultPreprocess struct {
	chain []Preprocessor
}

func (d *defaultPreprocess) Transform(vec []float64) ([]float64, error) {
	var err error
	for _, processor := range d.chain {
		vec, err = processor.Transform(vec)
		if err != nil {
			return nil, err
		}
	}
	return vec, nil
}

// Default 先检查输入是否有限，再使用scaler标准化
func Default(scaler *StandardScaler) Preprocessor {
	return &defaultPreprocess{chain: []Preprocessor{Validate(scaler.NumFeatures()), scaler}}
}
