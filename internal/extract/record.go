package extract

// NotFound is the value stored in a Record field when its rule has no match.
const NotFound = "Not Found"

// Field keys used by Record.Map and the JSON encoding.
const (
	KeyManufacturingDate = "manufacturing_date"
	KeyBatchNumber       = "batch_number"
	KeyNetWeight         = "net_weight"
	KeyMRP               = "mrp"
)

// Header is the ledger column order. Record.Row follows the same order.
var Header = []string{"Manufacturing Date", "Batch Number", "Net Weight", "MRP"}

// Record holds the label fields extracted from one OCR pass.
//
// Every field is either the substring matched in the source text or NotFound.
// Fields are independent of each other.
type Record struct {
	ManufacturingDate string `json:"manufacturing_date" yaml:"manufacturing_date"`
	BatchNumber       string `json:"batch_number" yaml:"batch_number"`
	NetWeight         string `json:"net_weight" yaml:"net_weight"`
	MRP               string `json:"mrp" yaml:"mrp"`
}

// Empty returns a Record with every field set to NotFound.
func Empty() Record {
	return Record{
		ManufacturingDate: NotFound,
		BatchNumber:       NotFound,
		NetWeight:         NotFound,
		MRP:               NotFound,
	}
}

// Map returns the record as a mapping keyed by the four field names.
func (r Record) Map() map[string]string {
	return map[string]string{
		KeyManufacturingDate: r.ManufacturingDate,
		KeyBatchNumber:       r.BatchNumber,
		KeyNetWeight:         r.NetWeight,
		KeyMRP:               r.MRP,
	}
}

// Row returns the field values in Header order.
func (r Record) Row() []string {
	return []string{r.ManufacturingDate, r.BatchNumber, r.NetWeight, r.MRP}
}

// FromRow builds a Record from values in Header order. Missing trailing
// cells are treated as empty strings.
func FromRow(row []string) Record {
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return Record{
		ManufacturingDate: cell(0),
		BatchNumber:       cell(1),
		NetWeight:         cell(2),
		MRP:               cell(3),
	}
}

// Found reports how many fields hold a matched value.
func (r Record) Found() int {
	n := 0
	for _, v := range r.Row() {
		if v != NotFound {
			n++
		}
	}
	return n
}
