package models

// StudentColumns is the declared header row of the roster worksheet.
// Column order is the positional contract shared with the sheet; the
// store fails fast when the actual header disagrees.
var StudentColumns = []string{
	"Name",
	"Class",
	"MyKid",
	"Gender",
	"Guardian Name",
	"Guardian Phone",
	"Address",
}

// Student is one roster record. Every value is text; the MyKid number
// is the natural key and unique across the roster.
type Student struct {
	Name          string `json:"name"`
	Class         string `json:"class"`
	MyKid         string `json:"mykid"`
	Gender        string `json:"gender"`
	GuardianName  string `json:"guardian_name"`
	GuardianPhone string `json:"guardian_phone"`
	Address       string `json:"address"`
}

// Row returns the field values in declared column order.
func (s Student) Row() []string {
	return []string{s.Name, s.Class, s.MyKid, s.Gender, s.GuardianName, s.GuardianPhone, s.Address}
}

// StudentFromRow zips a worksheet row into a Student positionally.
// Short rows (trailing blank cells trimmed by the vendor) yield empty
// fields.
func StudentFromRow(row []string) Student {
	get := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return Student{
		Name:          get(0),
		Class:         get(1),
		MyKid:         get(2),
		Gender:        get(3),
		GuardianName:  get(4),
		GuardianPhone: get(5),
		Address:       get(6),
	}
}

// StudentFilter scopes roster listing.
type StudentFilter struct {
	Search   string
	Class    string
	Page     int
	PageSize int
}
