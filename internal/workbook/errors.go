package workbook

// MissingSheetError is returned when the workbook lacks a required sheet.
type MissingSheetError struct {
	Sheet string
}

func (e *MissingSheetError) Error() string {
	return "workbook: missing sheet " + e.Sheet
}

// NewMissingSheetError creates a MissingSheetError for sheet.
func NewMissingSheetError(sheet string) *MissingSheetError {
	return &MissingSheetError{Sheet: sheet}
}

// MissingColumnError is returned when a sheet header lacks a required column.
type MissingColumnError struct {
	Sheet  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return "workbook: sheet " + e.Sheet + " has no column " + e.Column
}

// NewMissingColumnError creates a MissingColumnError.
func NewMissingColumnError(sheet, column string) *MissingColumnError {
	return &MissingColumnError{Sheet: sheet, Column: column}
}
