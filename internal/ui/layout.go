package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// cardWidth is the rendered width of one book card, border included.
	cardWidth = 30

	// cardBodyLines is the number of text lines inside a card.
	cardBodyLines = 4

	// headerLines is the height of the header plus command bar.
	headerLines = 2
)
