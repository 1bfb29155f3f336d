package tui

import (
	"github.com/buscar-app/buscar/internal/model"
)

// Data loading messages.
type pageLoadedMsg struct {
	err  error
	page *model.ListingPage
	seq  uint64
}

type detailLoadedMsg struct {
	err error
	car *model.CarListing
	id  string
}

type brandsLoadedMsg struct {
	err    error
	brands []model.Brand
}

// UI messages.
type toastExpiredMsg struct {
	id int
}
