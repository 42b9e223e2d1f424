package nimbus

// Overlay is the built-in presenter. It records the latest presentation
// events so Render can draw them into the terminal frame.
type Overlay struct {
	hud    HUD
	screen ScreenName
	banner string
}

// UpdateHUD stores the latest HUD values.
func (o *Overlay) UpdateHUD(h HUD) error {
	o.hud = h
	return nil
}

// ShowScreen selects the visible overlay screen.
func (o *Overlay) ShowScreen(name ScreenName) error {
	o.screen = name
	return nil
}

// HideScreens clears the overlay screen and any banner.
func (o *Overlay) HideScreens() error {
	o.screen = ""
	o.banner = ""
	return nil
}

// ShowMissionComplete shows a transient banner.
func (o *Overlay) ShowMissionComplete(message string) error {
	o.screen = ScreenMission
	o.banner = message
	return nil
}

// HUD returns the last HUD update.
func (o *Overlay) HUD() HUD { return o.hud }

// Screen returns the visible screen, empty when none.
func (o *Overlay) Screen() ScreenName { return o.screen }

// Banner returns the mission banner text.
func (o *Overlay) Banner() string { return o.banner }
