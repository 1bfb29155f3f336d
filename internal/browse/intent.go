package browse

// Intent is a discrete user action the presentation layer hands to the
// session. The rendering code never mutates criteria or cursor directly; it
// only emits intents.
type Intent interface {
	isIntent()
}

// SetFiltersIntent merges a partial criteria update.
type SetFiltersIntent struct {
	Update FilterUpdate
}

// SetSortIntent changes the sort order without resetting pagination.
type SetSortIntent struct {
	Sort SortOrder
}

// GoToPageIntent moves the cursor to a page, filters untouched.
type GoToPageIntent struct {
	Page int
}

// SelectCategoryIntent toggles a browse category.
type SelectCategoryIntent struct {
	Tag string
}

// ClearFiltersIntent restores default criteria; ResetCategory also drops the
// active category.
type ClearFiltersIntent struct {
	ResetCategory bool
}

func (SetFiltersIntent) isIntent()     {}
func (SetSortIntent) isIntent()        {}
func (GoToPageIntent) isIntent()       {}
func (SelectCategoryIntent) isIntent() {}
func (ClearFiltersIntent) isIntent()   {}
