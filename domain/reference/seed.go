package reference

import (
	"statesapi/domain/core/entities"
	"statesapi/domain/core/valueobjects"
)

var defaultFunFacts = []struct {
	code  string
	facts []string
}{
	{code: "KS", facts: []string{
		"Wizard of Oz was set in Kansas",
		"Sunflower is the state flower",
		"Kansas produces more wheat than any other state",
	}},
	{code: "MO", facts: []string{
		"The Pony Express started in Missouri",
		"Mark Twain was from Missouri",
		"Missouri is known as the Show-Me State",
	}},
	{code: "OK", facts: []string{
		"Oklahoma hosted the first parking meter",
		"Home of Route 66",
		"Oklahoma means “red people”",
	}},
	{code: "NE", facts: []string{
		"Nebraska’s state sport is sandhill crane watching",
		"Home of Kool-Aid",
		"Birthplace of the refrigerated railroad car",
	}},
	{code: "CO", facts: []string{
		"The world’s first rodeo was in Colorado",
		"Colorado has the highest average elevation of any state",
		"Home to the world’s largest flat-top mountain",
	}},
}

// DefaultFactDocuments returns the starter fun facts loaded into an empty store
func DefaultFactDocuments() []*entities.FactDocument {
	docs := make([]*entities.FactDocument, 0, len(defaultFunFacts))
	for _, seed := range defaultFunFacts {
		docs = append(docs, entities.NewFactDocument(valueobjects.MustStateCode(seed.code), seed.facts))
	}
	return docs
}
