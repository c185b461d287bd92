package types

// NO_PAGING disables limit/offset on list queries.
const NO_PAGING uint64 = 0

const (
	LANGUAGE_EN_KEY = "en"
	LANGUAGE_SW_KEY = "sw"
)
