package session

// WelcomeHandle identifies one run of the welcome animation. Each
// Authenticate issues a new handle; Logout and later authentications
// invalidate every older one.
type WelcomeHandle struct {
	gen uint64
}

// Generation returns the handle's sequence number.
func (h WelcomeHandle) Generation() uint64 { return h.gen }

// WelcomeValid reports whether h is still the live animation handle.
func (m *Machine) WelcomeValid(h WelcomeHandle) bool {
	return m.screen == ScreenWelcome && h.gen != 0 && h.gen == m.welcomeGen
}

// FinishWelcome ends the animation identified by h and moves on to
// onboarding, or straight to the main app when the profile is already
// complete. A stale handle is a no-op and returns false. A handle this
// machine never issued returns ErrInvalidTransition.
func (m *Machine) FinishWelcome(h WelcomeHandle) (bool, error) {
	if h.gen == 0 || h.gen > m.welcomeGen {
		return false, ErrInvalidTransition
	}
	if !m.WelcomeValid(h) {
		m.log.Debug("ignoring stale welcome handle", "gen", h.gen, "current", m.welcomeGen)
		return false, nil
	}

	if m.profile != nil && m.profile.Completed {
		m.enterMain(m.defaultView())
	} else {
		m.setScreen(ScreenOnboarding)
	}
	return true, nil
}
