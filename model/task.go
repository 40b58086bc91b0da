package model

import (
	"bytes"
	"fmt"
)

// TaskType indicates the learning task the ensemble was trained for.
type TaskType uint8

const (
	TaskBinaryClf TaskType = iota
	TaskRegressor
	TaskMultiClf
	TaskLearningToRank
	TaskIsolationForest
)

func (t TaskType) String() string {
	switch t {
	case TaskBinaryClf:
		return "kBinaryClf"
	case TaskRegressor:
		return "kRegressor"
	case TaskMultiClf:
		return "kMultiClf"
	case TaskLearningToRank:
		return "kLearningToRank"
	case TaskIsolationForest:
		return "kIsolationForest"
	default:
		return ""
	}
}

// ParseTaskType maps a textual task-type code back to its tag.
// An unrecognized code is an error.
func ParseTaskType(s string) (TaskType, error) {
	switch s {
	case "kBinaryClf":
		return TaskBinaryClf, nil
	case "kRegressor":
		return TaskRegressor, nil
	case "kMultiClf":
		return TaskMultiClf, nil
	case "kLearningToRank":
		return TaskLearningToRank, nil
	case "kIsolationForest":
		return TaskIsolationForest, nil
	default:
		return 0, fmt.Errorf("unknown task type: %q", s)
	}
}

// OutputType is the representation of the model output.
type OutputType uint8

const (
	OutputFloat OutputType = iota
	OutputInt
)

// TaskParam places task-specific constraints on the model.
type TaskParam struct {
	OutputType     OutputType
	GrovePerClass  bool
	NumClass       uint32
	LeafVectorSize uint32
}

// DefaultTaskParam returns the parameters of a plain scalar-output task.
func DefaultTaskParam() TaskParam {
	return TaskParam{
		OutputType:     OutputFloat,
		NumClass:       1,
		LeafVectorSize: 1,
	}
}

// PredTransformLen is the fixed wire size of the pred-transform name.
const PredTransformLen = 256

// ModelParam holds model-level prediction-transform parameters.
type ModelParam struct {
	PredTransform [PredTransformLen]byte
	SigmoidAlpha  float32
	RatioC        float32
	GlobalBias    float32
}

// DefaultModelParam returns the identity transform with neutral parameters.
func DefaultModelParam() ModelParam {
	p := ModelParam{
		SigmoidAlpha: 1.0,
		RatioC:       1.0,
	}
	copy(p.PredTransform[:], "identity")
	return p
}

// predTransforms is the closed vocabulary of prediction transforms.
var predTransforms = map[string]struct{}{
	"identity":               {},
	"sigmoid":                {},
	"exponential":            {},
	"hinge":                  {},
	"max_index":              {},
	"softmax":                {},
	"multiclass_ova":         {},
	"logarithm_one_plus_exp": {},
	"identity_multiclass":    {},
	"signed_square":          {},
}

// SetPredTransform stores a prediction-transform name, validating it
// against the known vocabulary.
func (p *ModelParam) SetPredTransform(name string) error {
	if _, ok := predTransforms[name]; !ok {
		return fmt.Errorf("unknown pred transform: %q", name)
	}
	if len(name) >= PredTransformLen {
		return fmt.Errorf("pred transform name too long: %d bytes", len(name))
	}
	var buf [PredTransformLen]byte
	copy(buf[:], name)
	p.PredTransform = buf
	return nil
}

// PredTransformName returns the stored prediction-transform name.
func (p *ModelParam) PredTransformName() string {
	b := p.PredTransform[:]
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
