package service

// WhiskyType is the closed set of whisky categories.
type WhiskyType string

const (
	OldParr      WhiskyType = "OLDPARR"
	WhiteHorse   WhiskyType = "WHITEHORSE"
	JohnnyWalker WhiskyType = "JOHNNYWALKER"
	Balantines   WhiskyType = "BALANTINES"
	RoyalSalute  WhiskyType = "ROYALSALUTE"
	Jameson      WhiskyType = "JAMESON"
	Grants       WhiskyType = "GRANTS"
)

var whiskyTypeDescriptions = map[WhiskyType]string{
	OldParr:      "Old Parr",
	WhiteHorse:   "White Horse",
	JohnnyWalker: "Johnny Walker",
	Balantines:   "Balantines",
	RoyalSalute:  "Royal Salute",
	Jameson:      "Jameson",
	Grants:       "Grants",
}

// WhiskyTypes returns every known whisky type.
func WhiskyTypes() []WhiskyType {
	return []WhiskyType{OldParr, WhiteHorse, JohnnyWalker, Balantines, RoyalSalute, Jameson, Grants}
}

func (t WhiskyType) IsValid() bool {
	_, ok := whiskyTypeDescriptions[t]
	return ok
}

// Description returns the human readable name, or an empty string for unknown types.
func (t WhiskyType) Description() string {
	return whiskyTypeDescriptions[t]
}
