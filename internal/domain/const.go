package domain

const (
	// Blockchain constants
	ETHEREUM_ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"

	// Collection constants
	DEFAULT_TOTAL_SUPPLY = 7777
)
