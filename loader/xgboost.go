package loader

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/lattisworks/vote/bound"
	"github.com/lattisworks/vote/ensemble"
	"github.com/lattisworks/vote/postproc"
	"github.com/lattisworks/vote/tree"
)

// xgbLearnerParam mirrors XGBoost's fixed 140-byte LearnerModelParam
// record (spec.md §6): base_score (float32), num_feature (uint32),
// num_class (int32), contain_extra_attrs (int32),
// contain_eval_metrics (int32), 29 reserved int32s.
type xgbLearnerParam struct {
	BaseScore          float32
	NumFeature         uint32
	NumClass           int32
	ContainExtraAttrs  int32
	ContainEvalMetrics int32
	Reserved           [29]int32
}

// xgbModelParam mirrors GBTreeModelParam.
type xgbModelParam struct {
	NumTrees             int32
	NumRoots             int32
	NumFeature           int32
	Pad32Bit             int32
	NumPbufferDeprecated int64
	NumOutputGroup       int32
	SizeLeafVector       int32
	Reserved             [32]int32
}

// xgbTreeParam mirrors TreeParam.
type xgbTreeParam struct {
	NumRoots       int32
	NumNodes       int32
	NumDeleted     int32
	MaxDepth       int32
	NumFeature     int32
	SizeLeafVector int32
	Reserved       [31]int32
}

// xgbNode mirrors one Node record: parent, cleft, cright, sindex,
// value. sindex's top bit is a "default direction" flag unrelated to
// the feature index; the feature index is the low 31 bits (spec.md §6,
// "Feature index is sindex & 0x7FFFFFFF").
type xgbNode struct {
	Parent int32
	CLeft  int32
	CRight int32
	SIndex uint32
	Value  float32
}

// xgbNodeStat mirrors RTreeNodeStat; its fields are discarded (spec.md
// §6: "num_nodes stat records (discarded)").
type xgbNodeStat struct {
	LossChg      float32
	SumHess      float32
	BaseWeight   float32
	LeafChildCnt int32
}

const sindexFeatureMask = 0x7FFFFFFF

// postProcessFromObjective maps an XGBoost objective string to a
// (post-process kind, output count) pair per spec.md §6.
func postProcessFromObjective(objective string, numClass int) (postproc.Kind, int, error) {
	switch {
	case strings.Contains(objective, "reg:"):
		return postproc.None, 1, nil
	case strings.Contains(objective, "binary:logistic"):
		return postproc.Sigmoid, 1, nil
	case strings.Contains(objective, "multi:softprob"), strings.Contains(objective, "multi:softmax"):
		return postproc.Softmax, numClass, nil
	default:
		return postproc.None, 0, fmt.Errorf("loader: unrecognized xgboost objective %q", objective)
	}
}

// DecodeXGBoost reads the legacy XGBoost binary tree dump (spec.md §6).
//
// Layout: an optional 4-byte "binf" header (rewind if absent), a fixed
// LearnerModelParam record, a size-prefixed objective string, a
// size-prefixed booster string, a GBTreeModelParam record, then per
// tree: a TreeParam record, num_nodes Node records, and num_nodes
// discarded stat records.
func DecodeXGBoost(r io.Reader) (*ensemble.Ensemble, error) {
	br := bufio.NewReader(r)

	// The header is optional; when absent the LearnerModelParam record
	// starts at byte 0, so a mismatch must leave those bytes unread
	// rather than consuming them (spec.md §6: "absent ⇒ rewind").
	if header, err := br.Peek(4); err == nil && string(header) == "binf" {
		if _, err := br.Discard(4); err != nil {
			return nil, fmt.Errorf("loader.DecodeXGBoost: header: %w", err)
		}
	}

	var learn xgbLearnerParam
	if err := binary.Read(br, binary.LittleEndian, &learn); err != nil {
		return nil, fmt.Errorf("loader.DecodeXGBoost: learner param: %w", err)
	}

	objective, err := readSizePrefixedString(br)
	if err != nil {
		return nil, fmt.Errorf("loader.DecodeXGBoost: objective: %w", err)
	}
	if _, err := readSizePrefixedString(br); err != nil { // booster type, unused
		return nil, fmt.Errorf("loader.DecodeXGBoost: booster: %w", err)
	}

	var model xgbModelParam
	if err := binary.Read(br, binary.LittleEndian, &model); err != nil {
		return nil, fmt.Errorf("loader.DecodeXGBoost: model param: %w", err)
	}

	kind, nOut, err := postProcessFromObjective(objective, int(learn.NumClass))
	if err != nil {
		return nil, fmt.Errorf("loader.DecodeXGBoost: %w", err)
	}
	if learn.NumFeature != uint32(model.NumFeature) {
		return nil, fmt.Errorf("loader.DecodeXGBoost: learner/model feature count mismatch: %d != %d", learn.NumFeature, model.NumFeature)
	}

	nIn := int(model.NumFeature)
	trees := make([]*tree.Tree, model.NumTrees)

	for i := range trees {
		var tp xgbTreeParam
		if err := binary.Read(br, binary.LittleEndian, &tp); err != nil {
			return nil, fmt.Errorf("loader.DecodeXGBoost: tree %d param: %w", i, err)
		}
		if int(tp.NumFeature) != nIn {
			return nil, fmt.Errorf("loader.DecodeXGBoost: tree %d feature count %d != ensemble %d", i, tp.NumFeature, nIn)
		}

		n := int(tp.NumNodes)
		left := make([]int, n)
		right := make([]int, n)
		feature := make([]int, n)
		threshold := make([]bound.R, n)
		value := make([][]bound.R, n)

		for j := 0; j < n; j++ {
			var node xgbNode
			if err := binary.Read(br, binary.LittleEndian, &node); err != nil {
				return nil, fmt.Errorf("loader.DecodeXGBoost: tree %d node %d: %w", i, j, err)
			}

			left[j] = int(node.CLeft)
			right[j] = int(node.CRight)
			value[j] = make([]bound.R, nOut)

			if node.CLeft == -1 {
				feature[j] = -1
				threshold[j] = 0
				switch nOut {
				case 1:
					value[j][0] = bound.R(node.Value)
				default:
					// Boosting rounds in a multi-class model cycle
					// one tree per class; tree i contributes its
					// leaf value to output dimension i % nOut, and
					// zero everywhere else (spec.md §6, "one tree
					// per class per round").
					value[j][i%nOut] = bound.R(node.Value)
				}
			} else {
				feature[j] = int(node.SIndex & sindexFeatureMask)
				threshold[j] = bound.R(node.Value)
			}
		}

		for j := 0; j < n; j++ {
			var stat xgbNodeStat
			if err := binary.Read(br, binary.LittleEndian, &stat); err != nil {
				return nil, fmt.Errorf("loader.DecodeXGBoost: tree %d stat %d: %w", i, j, err)
			}
		}

		t, err := tree.New(nIn, nOut, left, right, feature, threshold, value, false)
		if err != nil {
			return nil, fmt.Errorf("loader.DecodeXGBoost: tree %d: %w", i, err)
		}
		trees[i] = t
	}

	e, err := ensemble.New(trees, kind)
	if err != nil {
		return nil, fmt.Errorf("loader.DecodeXGBoost: %w", err)
	}
	return e, nil
}

func readSizePrefixedString(r io.Reader) (string, error) {
	var size uint64
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return "", err
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
