// Package session implements the application state machine: the screen
// flow from landing to the main app, and the live copies of identity,
// bills, onboarding profile and tier.
//
// A Machine is driven from a single goroutine (the TUI update loop or a
// CLI command) and holds no locks. Every mutation is mirrored to the
// store; write failures are logged and otherwise ignored so the in-memory
// session stays authoritative.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/energipro/internal/analytics"
	"github.com/theirongolddev/energipro/internal/model"
	"github.com/theirongolddev/energipro/internal/plan"
	"github.com/theirongolddev/energipro/internal/store"
)

// Screen is a top-level application state.
type Screen int

// Screens in flow order.
const (
	ScreenLanding Screen = iota
	ScreenAuth
	ScreenWelcome
	ScreenOnboarding
	ScreenMain
)

func (s Screen) String() string {
	switch s {
	case ScreenLanding:
		return "landing"
	case ScreenAuth:
		return "auth"
	case ScreenWelcome:
		return "welcome"
	case ScreenOnboarding:
		return "onboarding"
	case ScreenMain:
		return "main"
	}
	return fmt.Sprintf("Screen(%d)", int(s))
}

// View is the active tab inside the main app.
type View int

// Main app views.
const (
	ViewPlans View = iota
	ViewUpload
	ViewAnalytics
)

// Views lists every view in tab order.
var Views = []View{ViewPlans, ViewUpload, ViewAnalytics}

func (v View) String() string {
	switch v {
	case ViewPlans:
		return "plans"
	case ViewUpload:
		return "upload"
	case ViewAnalytics:
		return "analytics"
	}
	return fmt.Sprintf("View(%d)", int(v))
}

// ParseView parses a view name.
func ParseView(s string) (View, error) {
	for _, v := range Views {
		if strings.EqualFold(s, v.String()) {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown view %q", s)
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithLogger sets the logger for transitions and persistence failures.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) { m.log = l }
}

// WithPolicy sets the plan policy.
func WithPolicy(p plan.Policy) Option {
	return func(m *Machine) { m.policy = p }
}

// WithCheckoutURL sets the payment page returned for tiers that need one.
func WithCheckoutURL(url string) Option {
	return func(m *Machine) { m.checkoutURL = url }
}

// WithBlobs lets the machine delete bill photos when their bill is
// removed. Without it photos are only dropped on logout.
func WithBlobs(b store.BlobStore) Option {
	return func(m *Machine) { m.blobs = b }
}

// WithIDGenerator overrides bill ID generation.
func WithIDGenerator(gen func() string) Option {
	return func(m *Machine) { m.newID = gen }
}

// Machine is the application state machine.
type Machine struct {
	store       store.Store
	blobs       store.BlobStore
	policy      plan.Policy
	checkoutURL string
	now         func() time.Time
	newID       func() string
	log         *slog.Logger

	screen   Screen
	view     View
	identity *model.Identity
	bills    []model.Bill
	profile  *model.Profile
	tier     model.Tier

	welcomeGen uint64
}

// New returns a machine on the landing screen with an empty session.
// Call Resume to pick up a persisted session.
func New(st store.Store, opts ...Option) *Machine {
	m := &Machine{
		store:       st,
		policy:      plan.DefaultPolicy(),
		checkoutURL: plan.DefaultCheckoutURL,
		now:         time.Now,
		newID:       newBillID,
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		screen:      ScreenLanding,
		tier:        model.TierFree,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func newBillID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Resume loads the persisted session and applies the startup rule: with a
// stored identity the machine resumes at onboarding, or at the main app
// when onboarding was completed. Inside the main app the analytics view is
// preferred when bills exist. Without an identity nothing is restored and
// any leftover slots are cleared, so a later sign-in cannot inherit them.
//
// A load error leaves the machine on the landing screen with an empty
// session; the error is returned for the caller to report.
func (m *Machine) Resume(ctx context.Context) error {
	snap, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	for _, slot := range snap.Corrupt {
		m.log.Warn("discarding unreadable session slot", "slot", slot)
	}

	if snap.Identity == nil {
		if !snap.Empty() {
			m.log.Info("discarding persisted data without identity")
			m.clearStore(ctx)
		}
		return nil
	}

	id := *snap.Identity
	m.identity = &id
	m.bills = slices.Clone(snap.Bills)
	if snap.Profile != nil {
		p := *snap.Profile
		m.profile = &p
	}
	if snap.Tier != "" {
		m.tier = snap.Tier
	}

	if m.profile == nil || !m.profile.Completed {
		m.setScreen(ScreenOnboarding)
		return nil
	}
	m.enterMain(m.defaultView())
	return nil
}

// Start leaves the landing screen for authentication.
func (m *Machine) Start() error {
	if m.screen != ScreenLanding {
		return ErrInvalidTransition
	}
	m.setScreen(ScreenAuth)
	return nil
}

// Back returns from authentication to the landing screen.
func (m *Machine) Back() error {
	if m.screen != ScreenAuth {
		return ErrInvalidTransition
	}
	m.setScreen(ScreenLanding)
	return nil
}

// Authenticate validates c, stores the identity and starts the welcome
// animation. A fresh session starts from an empty store. Validation
// failures are returned as *ValidationError and leave the machine on the
// auth screen.
func (m *Machine) Authenticate(ctx context.Context, c Credentials) (WelcomeHandle, error) {
	if m.screen != ScreenAuth {
		return WelcomeHandle{}, ErrInvalidTransition
	}
	if err := c.Validate(); err != nil {
		return WelcomeHandle{}, err
	}

	if m.bills == nil && m.profile == nil {
		// Fresh session: nothing stored before this identity may survive.
		m.clearStore(ctx)
	}
	id := c.Identity()
	m.identity = &id
	m.persist(ctx, store.SlotIdentity, id)

	m.welcomeGen++
	m.setScreen(ScreenWelcome)
	m.log.Info("signed in", "user", id.DisplayName, "mode", c.Mode)
	return WelcomeHandle{gen: m.welcomeGen}, nil
}

// CompleteOnboarding stores the household profile and enters the main app
// on the plans view.
func (m *Machine) CompleteOnboarding(ctx context.Context, p model.Profile) error {
	if m.screen != ScreenOnboarding {
		return ErrInvalidTransition
	}
	if err := ValidateProfile(p); err != nil {
		return err
	}

	p.Completed = true
	p.Appliances = slices.Clone(p.Appliances)
	m.profile = &p
	m.persist(ctx, store.SlotOnboarding, p)

	m.enterMain(ViewPlans)
	return nil
}

// BillInput is the user-supplied part of a new bill.
type BillInput struct {
	Period         string
	ConsumptionKWh float64
	AmountDue      float64
	ImageRef       string
}

// Validate checks the input fields.
func (in BillInput) Validate() error {
	if _, err := model.ParsePeriod(in.Period); err != nil {
		return invalid("period", "Please enter the bill month as YYYY-MM")
	}
	if !validAmount(in.ConsumptionKWh) {
		return invalid("consumption", "Consumption must be a non-negative number")
	}
	if !validAmount(in.AmountDue) {
		return invalid("amount", "Amount must be a non-negative number")
	}
	return nil
}

func validAmount(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// AddBill records a new bill. The free tier's monthly quota is checked
// against bill creation times; ErrQuotaExceeded is returned when it is used
// up. On success the analytics view becomes active.
func (m *Machine) AddBill(ctx context.Context, in BillInput) (model.Bill, error) {
	if m.screen != ScreenMain {
		return model.Bill{}, ErrInvalidTransition
	}
	if err := in.Validate(); err != nil {
		return model.Bill{}, err
	}
	now := m.now()
	if !m.policy.CanUploadBill(m.tier, m.bills, now) {
		return model.Bill{}, ErrQuotaExceeded
	}

	b := model.Bill{
		ID:             m.newID(),
		Period:         model.Period(in.Period),
		ConsumptionKWh: in.ConsumptionKWh,
		AmountDue:      in.AmountDue,
		ImageRef:       in.ImageRef,
		CreatedAt:      now,
	}
	m.bills = append(m.bills, b)
	m.billsChanged(ctx)
	m.log.Debug("bill added", "id", b.ID, "period", b.Period)
	return b, nil
}

// RemoveBill deletes the bill with the given ID and its photo.
func (m *Machine) RemoveBill(ctx context.Context, id string) error {
	if m.screen != ScreenMain {
		return ErrInvalidTransition
	}
	i := slices.IndexFunc(m.bills, func(b model.Bill) bool { return b.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrBillNotFound, id)
	}

	ref := m.bills[i].ImageRef
	m.bills = slices.Delete(m.bills, i, i+1)
	m.billsChanged(ctx)
	if ref != "" && m.blobs != nil {
		if err := m.blobs.DeleteBlob(ctx, ref); err != nil {
			m.log.Warn("deleting bill photo", "ref", ref, "err", err)
		}
	}
	m.log.Debug("bill removed", "id", id)
	return nil
}

// billsChanged persists the whole collection, including when it is now
// empty, and switches to analytics while there is something to show.
func (m *Machine) billsChanged(ctx context.Context) {
	bills := m.bills
	if bills == nil {
		bills = []model.Bill{}
	}
	m.persist(ctx, store.SlotBills, bills)
	if len(m.bills) > 0 {
		m.setView(ViewAnalytics)
	}
}

// SelectPlan handles a plan choice. Tiers that go through the external
// payment page return a Checkout and leave the tier unchanged; the others
// take effect at once and move to the upload view.
func (m *Machine) SelectPlan(ctx context.Context, tier model.Tier) (*plan.Checkout, error) {
	if m.screen != ScreenMain {
		return nil, ErrInvalidTransition
	}
	tier, err := model.ParseTier(string(tier))
	if err != nil {
		return nil, err
	}

	if plan.RequiresCheckout(tier) {
		m.log.Info("checkout requested", "tier", tier)
		return &plan.Checkout{Tier: tier, URL: m.checkoutURL}, nil
	}

	m.applyTier(ctx, tier)
	return nil, nil
}

// ActivatePlan sets the tier directly, e.g. after the user finished an
// external checkout.
func (m *Machine) ActivatePlan(ctx context.Context, tier model.Tier) error {
	if m.screen != ScreenMain {
		return ErrInvalidTransition
	}
	tier, err := model.ParseTier(string(tier))
	if err != nil {
		return err
	}
	m.applyTier(ctx, tier)
	return nil
}

func (m *Machine) applyTier(ctx context.Context, tier model.Tier) {
	if tier != m.tier {
		m.log.Info("plan changed", "from", m.tier, "to", tier)
	}
	m.tier = tier
	m.persist(ctx, store.SlotTier, tier)
	m.setView(ViewUpload)
}

// SetView switches the main app tab.
func (m *Machine) SetView(v View) error {
	if m.screen != ScreenMain {
		return ErrInvalidTransition
	}
	if !slices.Contains(Views, v) {
		return fmt.Errorf("unknown view %d", int(v))
	}
	m.setView(v)
	return nil
}

// Logout clears the store and the in-memory session and returns to the
// landing screen. Any running welcome animation is invalidated.
func (m *Machine) Logout(ctx context.Context) {
	m.clearStore(ctx)

	m.identity = nil
	m.bills = nil
	m.profile = nil
	m.tier = model.TierFree
	m.view = ViewPlans
	m.welcomeGen++
	m.setScreen(ScreenLanding)
	m.log.Info("signed out")
}

// CanUploadBill reports whether another bill may be added now.
func (m *Machine) CanUploadBill() bool {
	return m.policy.CanUploadBill(m.tier, m.bills, m.now())
}

// RemainingUploads returns how many bills may still be added this month,
// or plan.Unlimited.
func (m *Machine) RemainingUploads() int {
	return m.policy.Remaining(m.tier, m.bills, m.now())
}

// HasAdvancedFeatures reports whether the current tier unlocks forecasts
// and personalized tips.
func (m *Machine) HasAdvancedFeatures() bool {
	return plan.HasAdvancedFeatures(m.tier)
}

// Dashboard derives the analytics view from the current session.
func (m *Machine) Dashboard() analytics.Dashboard {
	return analytics.BuildDashboard(m.bills, m.profile, m.tier, plan.HasAdvancedFeatures(m.tier))
}

// Screen returns the current screen.
func (m *Machine) Screen() Screen { return m.screen }

// View returns the active main-app view.
func (m *Machine) View() View { return m.view }

// Tier returns the current subscription tier.
func (m *Machine) Tier() model.Tier { return m.tier }

// Policy returns the plan policy in effect.
func (m *Machine) Policy() plan.Policy { return m.policy }

// Now returns the machine's clock reading.
func (m *Machine) Now() time.Time { return m.now() }

// Identity returns the signed-in identity, if any.
func (m *Machine) Identity() (model.Identity, bool) {
	if m.identity == nil {
		return model.Identity{}, false
	}
	return *m.identity, true
}

// Profile returns a copy of the onboarding profile, or nil.
func (m *Machine) Profile() *model.Profile {
	if m.profile == nil {
		return nil
	}
	p := *m.profile
	p.Appliances = slices.Clone(p.Appliances)
	return &p
}

// Bills returns a copy of the bills in insertion order.
func (m *Machine) Bills() []model.Bill {
	return slices.Clone(m.bills)
}

func (m *Machine) defaultView() View {
	if len(m.bills) > 0 {
		return ViewAnalytics
	}
	return ViewUpload
}

func (m *Machine) enterMain(v View) {
	m.view = v
	m.setScreen(ScreenMain)
}

func (m *Machine) setScreen(s Screen) {
	if s != m.screen {
		m.log.Debug("screen transition", "from", m.screen, "to", s)
	}
	m.screen = s
}

func (m *Machine) setView(v View) {
	if v != m.view {
		m.log.Debug("view change", "from", m.view, "to", v)
	}
	m.view = v
}

func (m *Machine) clearStore(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.log.Warn("clearing persisted session", "err", err)
	}
}

func (m *Machine) persist(ctx context.Context, slot store.Slot, v any) {
	if err := m.store.Save(ctx, slot, v); err != nil {
		m.log.Warn("persisting session slot", "slot", slot, "err", err)
	}
}
