package memory

import "github.com/randomchill-vibes/findthestate/internal/domain"

type nopRenderer struct{}

func (nopRenderer) Render(domain.View) {}
func (nopRenderer) Highlight(domain.Highlight) {}
func (nopRenderer) Tick(string) {}
func (nopRenderer) GameOver(domain.Summary) {}
