package tui

// UI layout constants.
const (
	// FooterHeight is the legend/status line at the bottom.
	FooterHeight = 1

	// PreviewHeaderHeight covers the single-row event table plus its
	// header and border in the preview stage.
	PreviewHeaderHeight = 4

	// SearchModalWidth is the fixed width of the search input modal.
	SearchModalWidth = 60

	// SearchHintCount caps the fuzzy match hints under the search input.
	SearchHintCount = 5

	// ErrorModalWidth is the fixed width of the error panel.
	ErrorModalWidth = 60
)
