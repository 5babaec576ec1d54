package gan_go

import (
	"encoding/gob"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// WeightsPlaceholder Substring of a path template substituted with a sub-model
// name ("generator" / "discriminator") to derive snapshot paths.
const WeightsPlaceholder = "{}"

const (
	generatorComponent     = "generator"
	discriminatorComponent = "discriminator"
)

// weightEntry One learnable's snapshot. Entries are ordered as Network.Learnables.
type weightEntry struct {
	Name  string
	Value *tensor.Dense
}

// SaveWeights Persists generator and discriminator parameters into separate
// files derived from the template, e.g. "./out/{}.gob" becomes
// "./out/generator.gob" and "./out/discriminator.gob".
func (gan *GAN) SaveWeights(pathTemplate string) error {
	if err := validateTemplate(pathTemplate); err != nil {
		return err
	}
	if err := saveLearnables(templatePath(pathTemplate, generatorComponent), gan.generatorPart.Learnables()); err != nil {
		return errors.Wrap(err, "Can't save generator weights")
	}
	if err := saveLearnables(templatePath(pathTemplate, discriminatorComponent), gan.discriminatorPart.Learnables()); err != nil {
		return errors.Wrap(err, "Can't save discriminator weights")
	}
	return nil
}

// LoadWeights Restores generator and discriminator parameters saved by
// SaveWeights. The receiving GAN must have the same architecture: entry
// counts and shapes are checked before any value is touched. Values are
// copied into the existing tensor backings, so the frozen discriminator copy
// keeps tracking the trained one.
func (gan *GAN) LoadWeights(pathTemplate string) error {
	if err := validateTemplate(pathTemplate); err != nil {
		return err
	}
	if err := loadLearnables(templatePath(pathTemplate, generatorComponent), gan.generatorPart.Learnables()); err != nil {
		return errors.Wrap(err, "Can't load generator weights")
	}
	if err := loadLearnables(templatePath(pathTemplate, discriminatorComponent), gan.discriminatorPart.Learnables()); err != nil {
		return errors.Wrap(err, "Can't load discriminator weights")
	}
	return nil
}

func validateTemplate(pathTemplate string) error {
	if !strings.Contains(pathTemplate, WeightsPlaceholder) {
		return fmt.Errorf("Path template '%s' must contain placeholder '%s'", pathTemplate, WeightsPlaceholder)
	}
	return nil
}

func templatePath(pathTemplate, component string) string {
	return strings.ReplaceAll(pathTemplate, WeightsPlaceholder, component)
}

func saveLearnables(path string, learnables gorgonia.Nodes) error {
	entries := make([]weightEntry, 0, len(learnables))
	for i, node := range learnables {
		value, ok := node.Value().(*tensor.Dense)
		if !ok {
			return fmt.Errorf("Learnable #%d ('%s') has no dense value", i, node.Name())
		}
		entries = append(entries, weightEntry{
			Name:  node.Name(),
			Value: value.Clone().(*tensor.Dense),
		})
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "Can't create weights file")
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(entries); err != nil {
		return errors.Wrap(err, "Can't encode weights")
	}
	return nil
}

func loadLearnables(path string, learnables gorgonia.Nodes) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "Can't open weights file")
	}
	defer f.Close()
	var entries []weightEntry
	if err := gob.NewDecoder(f).Decode(&entries); err != nil {
		return errors.Wrap(err, "Can't decode weights")
	}
	if len(entries) != len(learnables) {
		return fmt.Errorf("Snapshot has %d learnables, but model has %d", len(entries), len(learnables))
	}
	for i, node := range learnables {
		dst, ok := node.Value().(*tensor.Dense)
		if !ok {
			return fmt.Errorf("Learnable #%d ('%s') has no dense value", i, node.Name())
		}
		if !dst.Shape().Eq(entries[i].Value.Shape()) {
			return fmt.Errorf("Learnable #%d ('%s') has shape %v, but snapshot entry '%s' has shape %v", i, node.Name(), dst.Shape(), entries[i].Name, entries[i].Value.Shape())
		}
		dstData, ok := dst.Data().([]float64)
		if !ok {
			return fmt.Errorf("Learnable #%d ('%s') must be Float64-backed", i, node.Name())
		}
		srcData, ok := entries[i].Value.Data().([]float64)
		if !ok {
			return fmt.Errorf("Snapshot entry '%s' must be Float64-backed", entries[i].Name)
		}
		copy(dstData, srcData)
	}
	return nil
}
