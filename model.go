package grove

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/grovekit/grove/tree"
)

const (
	kindID3    = "id3"
	kindC45    = "c45"
	kindForest = "forest"
)

type model struct {
	Kind        string            `json:"kind"`
	Tree        json.RawMessage   `json:"tree,omitempty"`
	Rules       []*tree.Rule      `json:"rules,omitempty"`
	RulesPruned bool              `json:"rulesPruned,omitempty"`
	Members     []json.RawMessage `json:"members,omitempty"`
	SubsetSize  int               `json:"featureSubsetSize,omitempty"`
	DataUsage   float64           `json:"dataUsage,omitempty"`
}

/*
MarshalModel takes an ID3, C45 or Forest classifier and returns it encoded in
JSON: its kind, its tree, the pruned rules of a C45 and the members of a
forest.
*/
func MarshalModel(c Classifier) ([]byte, error) {
	m, err := encodeModel(c)
	if err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

func encodeModel(c Classifier) (*model, error) {
	var err error
	m := &model{}
	switch c := c.(type) {
	case *ID3:
		m.Kind = kindID3
		m.Tree, err = json.Marshal(c.tree)
	case *C45:
		m.Kind = kindC45
		m.Tree, err = json.Marshal(c.tree)
		m.Rules = c.rules
		m.RulesPruned = c.rules != nil
	case *Forest:
		m.Kind = kindForest
		m.SubsetSize = c.subsetSize
		m.DataUsage = c.dataUsage
		for i, member := range c.members {
			data, err := MarshalModel(member)
			if err != nil {
				return nil, fmt.Errorf("encoding member %d: %v", i, err)
			}
			m.Members = append(m.Members, data)
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownModel, c)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s tree: %v", m.Kind, err)
	}
	return m, nil
}

/*
UnmarshalModel takes a slice of bytes with a model encoded by MarshalModel
and options for the decoded classifier and returns the classifier.
*/
func UnmarshalModel(data []byte, opts ...Option) (Classifier, error) {
	m := &model{}
	err := json.Unmarshal(data, m)
	if err != nil {
		return nil, fmt.Errorf("decoding model: %v", err)
	}
	s := newSettings(opts)
	switch m.Kind {
	case kindID3:
		id3 := newID3(s)
		if err = json.Unmarshal(m.Tree, id3.tree); err != nil {
			return nil, err
		}
		id3.validateTree()
		return id3, nil
	case kindC45:
		c := newC45(s)
		if err = json.Unmarshal(m.Tree, c.tree); err != nil {
			return nil, err
		}
		c.validateTree()
		if m.RulesPruned {
			c.rules = m.Rules
			if c.rules == nil {
				c.rules = []*tree.Rule{}
			}
		}
		return c, nil
	case kindForest:
		f := NewForest(opts...)
		f.subsetSize = m.SubsetSize
		if m.DataUsage > 0 {
			f.dataUsage = m.DataUsage
		}
		f.size = len(m.Members)
		for i, md := range m.Members {
			member, err := UnmarshalModel(md, opts...)
			if err != nil {
				return nil, fmt.Errorf("decoding member %d: %v", i, err)
			}
			fm, ok := member.(ForestMember)
			if !ok {
				return nil, fmt.Errorf("decoding member %d: %w: %T cannot be a forest member", i, ErrUnknownModel, member)
			}
			f.members = append(f.members, fm)
		}
		return f, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownModel, m.Kind)
}

/*
WriteModel takes an io.Writer and a classifier and writes the classifier to
the writer encoded with MarshalModel.
*/
func WriteModel(w io.Writer, c Classifier) error {
	data, err := MarshalModel(c)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

/*
ReadModel takes an io.Reader and options and returns the classifier decoded
with UnmarshalModel from the reader contents.
*/
func ReadModel(r io.Reader, opts ...Option) (Classifier, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading model: %v", err)
	}
	return UnmarshalModel(data, opts...)
}

/*
ModelCodec encodes and decodes classifiers with MarshalModel and
UnmarshalModel, decoding them with its options.
*/
type ModelCodec struct {
	Options []Option
}

// Encode returns the classifier encoded with MarshalModel
func (mc ModelCodec) Encode(c Classifier) ([]byte, error) {
	return MarshalModel(c)
}

// Decode returns the classifier decoded from the data with UnmarshalModel
func (mc ModelCodec) Decode(data []byte) (Classifier, error) {
	return UnmarshalModel(data, mc.Options...)
}
