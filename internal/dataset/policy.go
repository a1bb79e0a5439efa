package dataset

// DefaultCustomerKeyLength mirrors the marketplace report, which identifies
// customers by the first five characters of their unique key.
const DefaultCustomerKeyLength = 5

// CustomerKeyPolicy derives the short customer id used for RFM grouping.
// Distinct customers sharing a prefix collapse into one id; that coarser
// granularity is intended.
type CustomerKeyPolicy struct {
	Length int
}

func NewCustomerKeyPolicy(length int) CustomerKeyPolicy {
	if length <= 0 {
		length = DefaultCustomerKeyLength
	}
	return CustomerKeyPolicy{Length: length}
}

// Derive returns the first Length runes of raw, or raw itself when shorter.
func (p CustomerKeyPolicy) Derive(raw string) string {
	n := p.Length
	if n <= 0 {
		n = DefaultCustomerKeyLength
	}
	runes := []rune(raw)
	if len(runes) <= n {
		return raw
	}
	return string(runes[:n])
}
