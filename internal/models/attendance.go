package models

// AttendanceStatus is the roll-call status of one student on one day.
type AttendanceStatus string

const (
	AttendancePresent     AttendanceStatus = "present"
	AttendanceSick        AttendanceStatus = "sick"
	AttendanceFamilyLeave AttendanceStatus = "family_leave"
	AttendanceAbsent      AttendanceStatus = "absent"
	AttendanceLate        AttendanceStatus = "late"
	AttendanceSchoolRep   AttendanceStatus = "school_rep"
	AttendanceOther       AttendanceStatus = "other"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceSick, AttendanceFamilyLeave, AttendanceAbsent, AttendanceLate, AttendanceSchoolRep, AttendanceOther:
		return true
	default:
		return false
	}
}

// AttendanceColumns is the declared header row of the attendance
// worksheet.
var AttendanceColumns = []string{
	"Date",
	"Class",
	"Student Name",
	"MyKid",
	"Status",
	"Remark",
	"Recorded At",
}

// AttendanceEntry is one row of the daily roll-call journal. The
// journal is append-only: entries are never updated or deleted, and a
// resubmitted roll call appends corrected rows rather than rewriting
// history.
type AttendanceEntry struct {
	Date        string           `json:"date"`
	Class       string           `json:"class"`
	StudentName string           `json:"student_name"`
	MyKid       string           `json:"mykid"`
	Status      AttendanceStatus `json:"status"`
	Remark      string           `json:"remark"`
	RecordedAt  string           `json:"recorded_at"`
}

// Row returns the field values in declared column order.
func (e AttendanceEntry) Row() []string {
	return []string{e.Date, e.Class, e.StudentName, e.MyKid, string(e.Status), e.Remark, e.RecordedAt}
}

// AttendanceFromRow zips a worksheet row into an entry positionally.
func AttendanceFromRow(row []string) AttendanceEntry {
	get := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return AttendanceEntry{
		Date:        get(0),
		Class:       get(1),
		StudentName: get(2),
		MyKid:       get(3),
		Status:      AttendanceStatus(get(4)),
		Remark:      get(5),
		RecordedAt:  get(6),
	}
}

// AttendanceFilter scopes journal listing.
type AttendanceFilter struct {
	Date   string
	Class  string
	Status *AttendanceStatus
}

// AttendanceSummary aggregates the latest entry per student for a
// date/class.
type AttendanceSummary struct {
	Date     string                   `json:"date"`
	Class    string                   `json:"class,omitempty"`
	Counts   map[AttendanceStatus]int `json:"counts"`
	Total    int                      `json:"total"`
	Rate     float64                  `json:"attendance_rate"`
	Resubmit int                      `json:"superseded_entries"`
}
