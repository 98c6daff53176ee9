package domain

// HomeContent is the welcome block rendered on the landing page.
type HomeContent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
