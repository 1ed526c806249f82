package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripDeterminers(t *testing.T) {
	tests := map[string]string{
		"a cat":         "cat",
		"The Cat":       "Cat",
		"to run":        "run",
		"an apple pie":  "apple pie",
		"the":           "the",
		"cat":           "cat",
		"  some water ": "water",
		"theory":        "theory",
	}
	for in, want := range tests {
		assert.Equal(t, want, stripDeterminers(in), in)
	}
}

func TestSplitCamelCase(t *testing.T) {
	tests := map[string]string{
		"HouseCat":      "House Cat",
		"XMLParser":     "XML Parser",
		"Cat":           "Cat",
		"domestic_cat":  "domestic cat",
		"Mammal-Like":   "Mammal Like",
		"UnitedStates2": "United States2",
	}
	for in, want := range tests {
		assert.Equal(t, want, splitCamelCase(in), in)
	}
}

func TestCleanGloss(t *testing.T) {
	assert.Equal(t, "cat", cleanGloss("cat (esp. the domestic cat)"))
	assert.Equal(t, "to run fast", cleanGloss("to run (of a person) fast"))
	assert.Equal(t, "猫", cleanGloss("猫（ねこ）"))
	assert.Equal(t, "run", cleanDefinition("en", "to run (quickly)"))
	assert.Equal(t, "to run", cleanDefinition("de", "to run"))
}

func TestFillTemplate(t *testing.T) {
	assert.Equal(t, "[[dog]] is a kind of [[animal]]", fillTemplate("{1} is a kind of {2}", "dog", "animal"))
	assert.Equal(t, "因為[[餓]]所以[[吃]]", fillTemplate("因為{2}所以{1}", "吃", "餓"))
}
