package services

// FunFactView is the response for a random fun fact
type FunFactView struct {
	FunFact string `json:"funfact"`
}

// CapitalView is the capital projection of a state
type CapitalView struct {
	State   string `json:"state"`
	Capital string `json:"capital"`
}

// NicknameView is the nickname projection of a state
type NicknameView struct {
	State    string `json:"state"`
	Nickname string `json:"nickname"`
}

// PopulationView carries the population already formatted for display
type PopulationView struct {
	State      string `json:"state"`
	Population string `json:"population"`
}

// AdmissionView is the admission date projection of a state
type AdmissionView struct {
	State    string `json:"state"`
	Admitted string `json:"admitted"`
}
