package models

import (
	"strconv"
	"strings"
)

// IncomeColumns is the declared header row of the income worksheet.
var IncomeColumns = []string{
	"MyKid",
	"Student Name",
	"Father Name",
	"Father Income",
	"Mother Name",
	"Mother Income",
	"Guardian Income",
	"Dependents",
	"Notes",
}

// IncomeRecord holds the parent/guardian income data used for subsidy
// applications. Amounts are kept as the literal text entered on the
// form; leading zeros and long digit strings must survive a round trip
// through the sheet.
type IncomeRecord struct {
	MyKid          string `json:"mykid"`
	StudentName    string `json:"student_name"`
	FatherName     string `json:"father_name"`
	FatherIncome   string `json:"father_income"`
	MotherName     string `json:"mother_name"`
	MotherIncome   string `json:"mother_income"`
	GuardianIncome string `json:"guardian_income"`
	Dependents     string `json:"dependents"`
	Notes          string `json:"notes"`
}

// Row returns the field values in declared column order.
func (r IncomeRecord) Row() []string {
	return []string{r.MyKid, r.StudentName, r.FatherName, r.FatherIncome, r.MotherName, r.MotherIncome, r.GuardianIncome, r.Dependents, r.Notes}
}

// IncomeFromRow zips a worksheet row into an IncomeRecord positionally.
func IncomeFromRow(row []string) IncomeRecord {
	get := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return IncomeRecord{
		MyKid:          get(0),
		StudentName:    get(1),
		FatherName:     get(2),
		FatherIncome:   get(3),
		MotherName:     get(4),
		MotherIncome:   get(5),
		GuardianIncome: get(6),
		Dependents:     get(7),
		Notes:          get(8),
	}
}

// HouseholdIncome sums the parseable income amounts. The stored text is
// never rewritten; unparseable cells contribute zero.
func (r IncomeRecord) HouseholdIncome() float64 {
	var total float64
	for _, raw := range []string{r.FatherIncome, r.MotherIncome, r.GuardianIncome} {
		if v, ok := ParseAmount(raw); ok {
			total += v
		}
	}
	return total
}

// ParseAmount reads a monetary text cell, tolerating currency prefixes
// and thousands separators.
func ParseAmount(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "RM")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
