/*
Package yaml provides methods to parse record metadata, that is the label
name, the feature.Feature specifications and the feature acquisition costs,
from YAML documents.
*/
package yaml

import (
	"fmt"
	"os"

	"github.com/grovekit/grove/feature"
	yaml "gopkg.in/yaml.v2"
)

/*
Metadata describes the records of a set: the name of the label to predict,
the features in the order they were declared and optional costs for
obtaining the value of each feature.
*/
type Metadata struct {
	Label    string
	Features []feature.Feature
	Costs    map[string]float64
}

/*
ReadMetadata takes a slice of bytes with a metadata specification in YML and
returns the Metadata parsed from it or an error.
The YML is expected to be an object containing a features property. The value for this
should be an object with a property for each feature with its name and either a
string value of 'continuous' for continuous features or a list of valid values
for discrete features. A label property names the class to predict and an
optional costs property maps feature names to numbers.
*/
func ReadMetadata(md []byte) (*Metadata, error) {
	raw := struct {
		Label    string
		Features yaml.MapSlice
		Costs    map[string]float64
	}{}
	err := yaml.Unmarshal(md, &raw)
	if err != nil {
		return nil, fmt.Errorf("parsing yml metadata: %v", err)
	}
	if raw.Features == nil {
		return nil, fmt.Errorf("metadata file has no feature information")
	}
	features := make([]feature.Feature, 0, len(raw.Features))
	for _, item := range raw.Features {
		fn := fmt.Sprintf("%v", item.Key)
		if fn == raw.Label {
			continue
		}
		switch values := item.Value.(type) {
		case string:
			if values != "continuous" {
				return nil, fmt.Errorf("invalid declaration %q for feature %s", values, fn)
			}
			features = append(features, feature.NewContinuousFeature(fn))
		case []interface{}:
			stringVs := make([]string, 0, len(values))
			for _, v := range values {
				stringVs = append(stringVs, fmt.Sprintf("%v", v))
			}
			features = append(features, feature.NewDiscreteFeature(fn, stringVs))
		case nil:
			features = append(features, feature.NewDiscreteFeature(fn, nil))
		default:
			return nil, fmt.Errorf("invalid feature declaration of type %T", item.Value)
		}
	}
	for fn := range raw.Costs {
		if feature.Find(features, fn) == nil {
			return nil, fmt.Errorf("cost given for undeclared feature %s", fn)
		}
	}
	return &Metadata{Label: raw.Label, Features: features, Costs: raw.Costs}, nil
}

/*
ReadMetadataFromFile takes a filepath string, reads its contents and uses
ReadMetadata to parse it and return the parsed metadata or an error.
If the file indicated by the filepath cannot be opened for reading an error
will be returned.
*/
func ReadMetadataFromFile(filepath string) (*Metadata, error) {
	md, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading metadata yml file %s: %v", filepath, err)
	}
	metadata, err := ReadMetadata(md)
	if err != nil {
		err = fmt.Errorf("parsing metadata yml file %s: %v", filepath, err)
	}
	return metadata, err
}
