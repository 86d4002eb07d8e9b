package ledger

// ValidationResult is the outcome of checking a header against required columns.
type ValidationResult struct {
	OK      bool
	Missing []string // in the order of the required list
}

// Err returns a *MissingColumnsError for a failed result, nil otherwise.
func (v ValidationResult) Err() error {
	if v.OK {
		return nil
	}
	return &MissingColumnsError{Missing: v.Missing}
}

// Validate checks that every required column is present in columns.
func Validate(columns, required []string) ValidationResult {
	present := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		present[c] = struct{}{}
	}

	var missing []string
	for _, r := range required {
		if _, ok := present[r]; !ok {
			missing = append(missing, r)
		}
	}

	return ValidationResult{OK: len(missing) == 0, Missing: missing}
}
