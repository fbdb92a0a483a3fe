package ui

import "github.com/vanderheijden86/gantry/pkg/timeline"

// paneView is the vertical viewport of one pane. Like a real scroll
// widget, any change to its offset raises a scroll event, including writes
// made on behalf of the other pane; the synchronizer absorbs those echoes.
type paneView struct {
	id       timeline.Pane
	top      int
	onScroll func(timeline.Pane, int)
}

func (p *paneView) scrollTo(top int) {
	if top == p.top {
		return
	}
	p.top = top
	if p.onScroll != nil {
		p.onScroll(p.id, top)
	}
}

// newPanes wires both viewports to one synchronizer.
func newPanes() (*timeline.ScrollSync, [2]*paneView) {
	var panes [2]*paneView
	sync := timeline.NewScrollSync(func(p timeline.Pane, top int) {
		panes[p].scrollTo(top)
	})
	for _, id := range []timeline.Pane{timeline.PaneInfo, timeline.PaneTimeline} {
		panes[id] = &paneView{
			id:       id,
			onScroll: func(from timeline.Pane, top int) { sync.OnScroll(from, top) },
		}
	}
	return sync, panes
}
