package codes

// UnknownCode is returned for names the table does not contain. Callers that
// ingest under this sentinel store rows keyed by it; that is a documented
// degrade, not an error.
const UnknownCode = "UNKNOWN"

// Table maps stock names to exchange codes. It is passed explicitly to every
// component that resolves codes so tests can substitute mappings.
type Table map[string]string

// Default returns the built-in KOSPI table.
func Default() Table {
	return Table{
		"삼성전자":     "005930",
		"SK하이닉스":   "000660",
		"LG에너지솔루션": "373220",
		"삼성바이오로직스": "207940",
		"현대차":      "005380",
		"기아":       "000270",
		"POSCO홀딩스": "005490",
		"네이버":      "035420",
		"카카오":      "035720",
		"셀트리온":     "068270",
	}
}

// Lookup resolves a stock name to its code, exact match only.
func (t Table) Lookup(name string) string {
	if code, ok := t[name]; ok {
		return code
	}
	return UnknownCode
}

// Has reports whether the table knows the name.
func (t Table) Has(name string) bool {
	_, ok := t[name]
	return ok
}

// Merge returns a copy of t with entries from over applied on top.
func (t Table) Merge(over map[string]string) Table {
	merged := make(Table, len(t)+len(over))
	for name, code := range t {
		merged[name] = code
	}
	for name, code := range over {
		merged[name] = code
	}
	return merged
}
