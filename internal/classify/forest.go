package classify

import "fmt"

const leafNode = -1

// tree 与scikit-learn中tree_的数组布局一致：节点i的左右子节点为ChildrenLeft[i]和ChildrenRight[i]，
// 叶子节点的子节点为-1，Value[i]为落入节点i的各类别样本数（或比例）。
type tree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

type randomForest struct {
	ClassLabels []int   `json:"classes"`
	Features    int     `json:"n_features"`
	Estimators  []*tree `json:"estimators"`
}

var _ Classifier = &randomForest{}

func (r *randomForest) Classes() []int {
	return r.ClassLabels
}

func (r *randomForest) NumFeatures() int {
	return r.Features
}

func (r *randomForest) Predict(vec []float64) (int, []float64, error) {
	if len(vec) != r.Features {
		return 0, nil, fmt.Errorf("X has %d features, but RandomForestClassifier is expecting %d features as input",
			len(vec), r.Features)
	}

	proba := make([]float64, len(r.ClassLabels))
	for _, t := range r.Estimators {
		leaf := t.apply(vec)
		value := t.Value[leaf]
		sum := 0.0
		for _, v := range value {
			sum += v
		}
		if sum == 0 {
			continue
		}
		for i, v := range value {
			proba[i] += v / sum
		}
	}
	for i := range proba {
		proba[i] /= float64(len(r.Estimators))
	}

	return r.ClassLabels[argmax(proba)], proba, nil
}

// apply 返回vec落入的叶子节点编号
func (t *tree) apply(vec []float64) int {
	node := 0
	for t.ChildrenLeft[node] != leafNode {
		// 训练库在比较前会将输入转为float32
		if float64(float32(vec[t.Feature[node]])) <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return node
}

func (r *randomForest) check() error {
	if len(r.ClassLabels) < 2 {
		return fmt.Errorf("类别数量至少为2，现在为%d", len(r.ClassLabels))
	}
	if r.Features <= 0 {
		return fmt.Errorf("特征数量应该大于0，现在为%d", r.Features)
	}
	if len(r.Estimators) == 0 {
		return fmt.Errorf("随机森林中没有任何决策树")
	}

	for ti, t := range r.Estimators {
		n := len(t.ChildrenLeft)
		if n == 0 || len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
			return fmt.Errorf("第%d棵树的节点数组长度不一致", ti)
		}
		for i := 0; i < n; i++ {
			left, right := t.ChildrenLeft[i], t.ChildrenRight[i]
			if (left == leafNode) != (right == leafNode) {
				return fmt.Errorf("第%d棵树的第%d个节点只有一个子节点", ti, i)
			}
			if left == leafNode {
				if len(t.Value[i]) != len(r.ClassLabels) {
					return fmt.Errorf("第%d棵树的第%d个叶子节点类别数为%d，应为%d", ti, i, len(t.Value[i]), len(r.ClassLabels))
				}
				continue
			}
			// 子节点编号总是大于父节点，保证遍历一定结束
			if left <= i || right <= i || left >= n || right >= n {
				return fmt.Errorf("第%d棵树的第%d个节点子节点编号有误", ti, i)
			}
			if t.Feature[i] < 0 || t.Feature[i] >= r.Features {
				return fmt.Errorf("第%d棵树的第%d个节点特征编号%d越界", ti, i, t.Feature[i])
			}
		}
	}
	return nil
}
