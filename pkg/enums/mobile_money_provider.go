package enums

import "fmt"

// MobileMoneyProvider identifies the carrier wallet used for settlement.
type MobileMoneyProvider string

const (
	MobileMoneyProviderMTN        MobileMoneyProvider = "mtn"
	MobileMoneyProviderVodafone   MobileMoneyProvider = "vodafone"
	MobileMoneyProviderAirtelTigo MobileMoneyProvider = "airteltigo"
)

var validMobileMoneyProviders = []MobileMoneyProvider{
	MobileMoneyProviderMTN,
	MobileMoneyProviderVodafone,
	MobileMoneyProviderAirtelTigo,
}

// String implements fmt.Stringer.
func (p MobileMoneyProvider) String() string {
	return string(p)
}

// IsValid reports whether the value is a known MobileMoneyProvider.
func (p MobileMoneyProvider) IsValid() bool {
	for _, candidate := range validMobileMoneyProviders {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseMobileMoneyProvider converts raw input into a MobileMoneyProvider.
func ParseMobileMoneyProvider(value string) (MobileMoneyProvider, error) {
	for _, candidate := range validMobileMoneyProviders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid mobile money provider %q", value)
}
