package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/theirongolddev/energipro/internal/analytics"
	"github.com/theirongolddev/energipro/internal/model"
	"github.com/theirongolddev/energipro/internal/plan"
	"github.com/theirongolddev/energipro/internal/store"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("bill-%d", n)
	}
}

func newTestMachine(t *testing.T, st store.Store, c *clock, opts ...Option) *Machine {
	t.Helper()
	base := []Option{WithClock(c.now), WithIDGenerator(sequentialIDs())}
	return New(st, append(base, opts...)...)
}

var validLogin = Credentials{Mode: ModeLogin, Email: "maria.silva@example.com", Password: "secret1"}

var sampleProfile = model.Profile{
	Appliances: []string{model.ApplianceAC, model.ApplianceShower},
	HomeSize:   model.HomeMedium,
	Occupants:  2,
}

// signIn drives a fresh machine from landing to the main app.
func signIn(t *testing.T, m *Machine) {
	t.Helper()
	ctx := context.Background()
	if err := m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	h, err := m.Authenticate(ctx, validLogin)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if ok, err := m.FinishWelcome(h); !ok || err != nil {
		t.Fatalf("FinishWelcome = %v, %v", ok, err)
	}
	if err := m.CompleteOnboarding(ctx, sampleProfile); err != nil {
		t.Fatalf("CompleteOnboarding: %v", err)
	}
}

func TestMachine_FullFlow(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	c := &clock{t: time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)}
	m := newTestMachine(t, st, c)

	if m.Screen() != ScreenLanding {
		t.Fatalf("initial screen = %s", m.Screen())
	}
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	if m.Screen() != ScreenAuth {
		t.Fatalf("after Start screen = %s", m.Screen())
	}

	h, err := m.Authenticate(ctx, validLogin)
	if err != nil {
		t.Fatal(err)
	}
	if m.Screen() != ScreenWelcome {
		t.Fatalf("after Authenticate screen = %s", m.Screen())
	}
	id, ok := m.Identity()
	if !ok || id.DisplayName != "maria.silva" {
		t.Fatalf("Identity = %+v, %v", id, ok)
	}
	if !st.Has(store.SlotIdentity) {
		t.Fatal("identity not persisted")
	}

	if ok, err := m.FinishWelcome(h); !ok || err != nil {
		t.Fatalf("FinishWelcome = %v, %v", ok, err)
	}
	if m.Screen() != ScreenOnboarding {
		t.Fatalf("after welcome screen = %s", m.Screen())
	}

	if err := m.CompleteOnboarding(ctx, sampleProfile); err != nil {
		t.Fatal(err)
	}
	if m.Screen() != ScreenMain || m.View() != ViewPlans {
		t.Fatalf("after onboarding = %s/%s, want main/plans", m.Screen(), m.View())
	}
	if p := m.Profile(); p == nil || !p.Completed {
		t.Fatalf("profile = %+v", p)
	}
}

func TestMachine_InvalidTransitions(t *testing.T) {
	ctx := context.Background()
	m := newTestMachine(t, store.NewMemory(), &clock{t: time.Now()})

	if _, err := m.Authenticate(ctx, validLogin); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Authenticate from landing err = %v", err)
	}
	if err := m.CompleteOnboarding(ctx, sampleProfile); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("CompleteOnboarding from landing err = %v", err)
	}
	if _, err := m.AddBill(ctx, BillInput{Period: "2024-01"}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("AddBill from landing err = %v", err)
	}
	if err := m.SetView(ViewAnalytics); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("SetView from landing err = %v", err)
	}
	if err := m.Back(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Back from landing err = %v", err)
	}

	_ = m.Start()
	if err := m.Start(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second Start err = %v", err)
	}
	if err := m.Back(); err != nil || m.Screen() != ScreenLanding {
		t.Errorf("Back = %v, screen %s", err, m.Screen())
	}
}

func TestMachine_AuthenticateValidation(t *testing.T) {
	ctx := context.Background()
	m := newTestMachine(t, store.NewMemory(), &clock{t: time.Now()})
	_ = m.Start()

	_, err := m.Authenticate(ctx, Credentials{Email: "nope", Password: "secret1"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "email" {
		t.Fatalf("err = %v, want email ValidationError", err)
	}
	if m.Screen() != ScreenAuth {
		t.Fatalf("screen after failed auth = %s", m.Screen())
	}
	if _, ok := m.Identity(); ok {
		t.Fatal("identity set after failed auth")
	}
}

func TestMachine_StaleWelcomeHandle(t *testing.T) {
	ctx := context.Background()
	m := newTestMachine(t, store.NewMemory(), &clock{t: time.Now()})
	_ = m.Start()

	first, err := m.Authenticate(ctx, validLogin)
	if err != nil {
		t.Fatal(err)
	}

	m.Logout(ctx)
	if m.Screen() != ScreenLanding {
		t.Fatalf("after Logout screen = %s", m.Screen())
	}

	// The animation timer fires after the user already left.
	ok, err := m.FinishWelcome(first)
	if ok || err != nil {
		t.Fatalf("stale FinishWelcome = %v, %v; want no-op", ok, err)
	}
	if m.Screen() != ScreenLanding {
		t.Fatalf("stale handle moved screen to %s", m.Screen())
	}

	_ = m.Start()
	second, err := m.Authenticate(ctx, validLogin)
	if err != nil {
		t.Fatal(err)
	}
	if ok, _ := m.FinishWelcome(first); ok {
		t.Fatal("old handle finished the new animation")
	}
	if m.Screen() != ScreenWelcome {
		t.Fatalf("screen = %s, want welcome", m.Screen())
	}
	if ok, err := m.FinishWelcome(second); !ok || err != nil {
		t.Fatalf("current FinishWelcome = %v, %v", ok, err)
	}
	if ok, _ := m.FinishWelcome(second); ok {
		t.Fatal("handle finished twice")
	}

	if _, err := m.FinishWelcome(WelcomeHandle{}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("zero handle err = %v", err)
	}
}

func TestMachine_ResumeRule(t *testing.T) {
	ctx := context.Background()
	identity := model.Identity{Email: "a@b.co", DisplayName: "a"}
	completed := model.Profile{Completed: true, HomeSize: model.HomeSmall, Occupants: 1}

	tests := []struct {
		name       string
		seed       map[store.Slot]any
		wantScreen Screen
		wantView   View
	}{
		{
			name:       "nothing stored",
			wantScreen: ScreenLanding,
		},
		{
			name:       "identity only",
			seed:       map[store.Slot]any{store.SlotIdentity: identity},
			wantScreen: ScreenOnboarding,
		},
		{
			name: "onboarding incomplete",
			seed: map[store.Slot]any{
				store.SlotIdentity:   identity,
				store.SlotOnboarding: model.Profile{Completed: false},
			},
			wantScreen: ScreenOnboarding,
		},
		{
			name: "completed without bills",
			seed: map[store.Slot]any{
				store.SlotIdentity:   identity,
				store.SlotOnboarding: completed,
			},
			wantScreen: ScreenMain,
			wantView:   ViewUpload,
		},
		{
			name: "completed with bills",
			seed: map[store.Slot]any{
				store.SlotIdentity:   identity,
				store.SlotOnboarding: completed,
				store.SlotBills:      []model.Bill{{ID: "x", Period: "2024-01"}},
			},
			wantScreen: ScreenMain,
			wantView:   ViewAnalytics,
		},
		{
			name: "orphaned data without identity",
			seed: map[store.Slot]any{
				store.SlotOnboarding: completed,
				store.SlotTier:       model.TierPro,
			},
			wantScreen: ScreenLanding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemory()
			for slot, v := range tt.seed {
				if err := st.Save(ctx, slot, v); err != nil {
					t.Fatal(err)
				}
			}

			m := newTestMachine(t, st, &clock{t: time.Now()})
			if err := m.Resume(ctx); err != nil {
				t.Fatalf("Resume: %v", err)
			}
			if m.Screen() != tt.wantScreen {
				t.Fatalf("screen = %s, want %s", m.Screen(), tt.wantScreen)
			}
			if tt.wantScreen == ScreenMain && m.View() != tt.wantView {
				t.Fatalf("view = %s, want %s", m.View(), tt.wantView)
			}
		})
	}
}

func TestMachine_OrphanedDataIsNotInherited(t *testing.T) {
	ctx := context.Background()
	seed := func(t *testing.T) *store.Memory {
		t.Helper()
		st := store.NewMemory()
		for slot, v := range map[store.Slot]any{
			store.SlotTier:       model.TierPremium,
			store.SlotOnboarding: model.Profile{Completed: true, HomeSize: model.HomeLarge, Occupants: 4},
			store.SlotBills:      []model.Bill{{ID: "old", Period: "2023-12", ConsumptionKWh: 900, AmountDue: 700}},
		} {
			if err := st.Save(ctx, slot, v); err != nil {
				t.Fatal(err)
			}
		}
		return st
	}

	for _, resume := range []bool{true, false} {
		t.Run(fmt.Sprintf("resume=%v", resume), func(t *testing.T) {
			st := seed(t)
			c := &clock{t: time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)}
			m := newTestMachine(t, st, c)
			if resume {
				if err := m.Resume(ctx); err != nil {
					t.Fatal(err)
				}
				for _, slot := range []store.Slot{store.SlotTier, store.SlotOnboarding, store.SlotBills} {
					if st.Has(slot) {
						t.Errorf("orphaned slot %s kept after Resume", slot)
					}
				}
			}
			if err := m.Start(); err != nil {
				t.Fatal(err)
			}
			if _, err := m.Authenticate(ctx, validLogin); err != nil {
				t.Fatal(err)
			}

			restarted := newTestMachine(t, st, c)
			if err := restarted.Resume(ctx); err != nil {
				t.Fatal(err)
			}
			if restarted.Screen() != ScreenOnboarding {
				t.Errorf("screen after restart = %s, want onboarding", restarted.Screen())
			}
			if restarted.Tier() != model.TierFree || len(restarted.Bills()) != 0 || restarted.Profile() != nil {
				t.Errorf("restart inherited data: tier=%s bills=%d profile=%v",
					restarted.Tier(), len(restarted.Bills()), restarted.Profile())
			}
		})
	}
}

func TestMachine_RemoveBillDeletesPhoto(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	c := &clock{t: time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)}
	m := newTestMachine(t, st, c, WithBlobs(st))
	signIn(t, m)

	ref, err := st.PutBlob(ctx, []byte("photo-bytes"))
	if err != nil {
		t.Fatal(err)
	}
	keep, err := st.PutBlob(ctx, []byte("kept"))
	if err != nil {
		t.Fatal(err)
	}
	withPhoto, err := m.AddBill(ctx, BillInput{Period: "2024-04", ConsumptionKWh: 300, AmountDue: 200, ImageRef: ref})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddBill(ctx, BillInput{Period: "2024-05", ConsumptionKWh: 310, AmountDue: 205, ImageRef: keep}); err != nil {
		t.Fatal(err)
	}

	if err := m.RemoveBill(ctx, withPhoto.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := st.GetBlob(ctx, ref); !errors.Is(err, store.ErrBlobNotFound) {
		t.Fatalf("photo of removed bill: err = %v, want ErrBlobNotFound", err)
	}
	if _, err := st.GetBlob(ctx, keep); err != nil {
		t.Fatalf("photo of remaining bill: %v", err)
	}
}

func TestMachine_ResumeRestoresTier(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	_ = st.Save(ctx, store.SlotIdentity, model.Identity{Email: "a@b.co", DisplayName: "a"})
	_ = st.Save(ctx, store.SlotTier, model.TierPremium)

	m := newTestMachine(t, st, &clock{t: time.Now()})
	if err := m.Resume(ctx); err != nil {
		t.Fatal(err)
	}
	if m.Tier() != model.TierPremium {
		t.Fatalf("Tier = %s, want premium", m.Tier())
	}
}

func TestMachine_WelcomeSkipsCompletedOnboarding(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	c := &clock{t: time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)}
	m := newTestMachine(t, st, c)
	signIn(t, m)

	// Signing in again with a completed profile skips onboarding.
	m.screen = ScreenAuth
	h, err := m.Authenticate(ctx, validLogin)
	if err != nil {
		t.Fatal(err)
	}
	if ok, _ := m.FinishWelcome(h); !ok {
		t.Fatal("FinishWelcome returned false")
	}
	if m.Screen() != ScreenMain {
		t.Fatalf("screen = %s, want main", m.Screen())
	}
}

func TestMachine_Bills(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	c := &clock{t: time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)}
	m := newTestMachine(t, st, c)
	signIn(t, m)

	b, err := m.AddBill(ctx, BillInput{Period: "2024-04", ConsumptionKWh: 320, AmountDue: 210.5, ImageRef: "blob:abc"})
	if err != nil {
		t.Fatalf("AddBill: %v", err)
	}
	if b.ID != "bill-1" || !b.CreatedAt.Equal(c.t) || b.ImageRef != "blob:abc" {
		t.Fatalf("bill = %+v", b)
	}
	if m.View() != ViewAnalytics {
		t.Fatalf("view after AddBill = %s", m.View())
	}

	if _, err := m.AddBill(ctx, BillInput{Period: "April", ConsumptionKWh: 1, AmountDue: 1}); err == nil {
		t.Fatal("bad period accepted")
	}
	var verr *ValidationError
	if _, err := m.AddBill(ctx, BillInput{Period: "2024-04", ConsumptionKWh: -1}); !errors.As(err, &verr) || verr.Field != "consumption" {
		t.Fatalf("negative consumption err = %v", err)
	}

	if err := m.RemoveBill(ctx, "nope"); !errors.Is(err, ErrBillNotFound) {
		t.Fatalf("RemoveBill unknown err = %v", err)
	}

	_ = m.SetView(ViewPlans)
	if err := m.RemoveBill(ctx, b.ID); err != nil {
		t.Fatal(err)
	}
	if len(m.Bills()) != 0 {
		t.Fatalf("bills after remove = %v", m.Bills())
	}
	if m.View() != ViewPlans {
		t.Fatalf("view changed to %s after emptying bills", m.View())
	}

	// Emptying the collection must reach the store.
	snap, err := st.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !snap.HasBills || len(snap.Bills) != 0 {
		t.Fatalf("persisted bills = %+v (present=%v), want empty list", snap.Bills, snap.HasBills)
	}
}

func TestMachine_QuotaExceeded(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)}
	m := newTestMachine(t, store.NewMemory(), c, WithPolicy(plan.Policy{FreeMonthlyQuota: 2}))
	signIn(t, m)

	for i := 0; i < 2; i++ {
		if _, err := m.AddBill(ctx, BillInput{Period: "2024-05", ConsumptionKWh: 100, AmountDue: 80}); err != nil {
			t.Fatalf("AddBill %d: %v", i+1, err)
		}
	}
	if m.CanUploadBill() {
		t.Fatal("CanUploadBill true with quota used up")
	}
	if _, err := m.AddBill(ctx, BillInput{Period: "2024-05", ConsumptionKWh: 100, AmountDue: 80}); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("third AddBill err = %v, want ErrQuotaExceeded", err)
	}
	if got := len(m.Bills()); got != 2 {
		t.Fatalf("bills = %d, want 2", got)
	}

	c.t = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	if !m.CanUploadBill() || m.RemainingUploads() != 2 {
		t.Fatalf("quota did not reset: can=%v remaining=%d", m.CanUploadBill(), m.RemainingUploads())
	}

	_, _ = m.SelectPlan(ctx, model.TierPremium)
	c.t = time.Date(2024, time.June, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if _, err := m.AddBill(ctx, BillInput{Period: "2024-06", ConsumptionKWh: 1, AmountDue: 1}); err != nil {
			t.Fatalf("premium AddBill %d: %v", i+1, err)
		}
	}
	if m.RemainingUploads() != plan.Unlimited {
		t.Fatalf("premium RemainingUploads = %d", m.RemainingUploads())
	}
}

func TestMachine_SelectPlan(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	m := newTestMachine(t, st, &clock{t: time.Now()}, WithCheckoutURL("https://pay.example.com/pro"))
	signIn(t, m)

	co, err := m.SelectPlan(ctx, model.TierPro)
	if err != nil {
		t.Fatal(err)
	}
	if co == nil || co.URL != "https://pay.example.com/pro" || co.Tier != model.TierPro {
		t.Fatalf("checkout = %+v", co)
	}
	if m.Tier() != model.TierFree {
		t.Fatalf("tier changed to %s before payment", m.Tier())
	}
	if m.View() != ViewPlans {
		t.Fatalf("view = %s, want plans", m.View())
	}

	co, err = m.SelectPlan(ctx, model.TierPremium)
	if err != nil || co != nil {
		t.Fatalf("SelectPlan(premium) = %+v, %v", co, err)
	}
	if m.Tier() != model.TierPremium || m.View() != ViewUpload {
		t.Fatalf("after premium: tier=%s view=%s", m.Tier(), m.View())
	}

	if _, err := m.SelectPlan(ctx, model.Tier("gold")); !errors.Is(err, model.ErrUnknownTier) {
		t.Fatalf("unknown tier err = %v", err)
	}

	if err := m.ActivatePlan(ctx, model.TierPro); err != nil {
		t.Fatal(err)
	}
	snap, _ := st.Load(ctx)
	if snap.Tier != model.TierPro {
		t.Fatalf("persisted tier = %s, want pro", snap.Tier)
	}
}

func TestMachine_DashboardGating(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)}
	m := newTestMachine(t, store.NewMemory(), c)
	signIn(t, m)

	if d := m.Dashboard(); !d.Empty {
		t.Fatal("dashboard not empty without bills")
	}

	_, _ = m.AddBill(ctx, BillInput{Period: "2024-01", ConsumptionKWh: 300, AmountDue: 200})
	_, _ = m.AddBill(ctx, BillInput{Period: "2024-03", ConsumptionKWh: 400, AmountDue: 260})

	free := m.Dashboard()
	if free.Advanced || len(free.PersonalizedTips) != 0 || len(free.Chart) != 2 {
		t.Fatalf("free dashboard = %+v", free)
	}

	_ = m.ActivatePlan(ctx, model.TierPro)
	pro := m.Dashboard()
	if !pro.Advanced {
		t.Fatal("pro dashboard not advanced")
	}
	if pro.Stats.AvgConsumption != 350 || pro.Stats.TrendConsumption != analytics.TrendUp || pro.Stats.ForecastConsumption != 367.5 {
		t.Fatalf("stats = %+v", pro.Stats)
	}
	if n := len(pro.Chart); n != 3 || !pro.Chart[n-1].Forecast {
		t.Fatalf("pro chart = %+v", pro.Chart)
	}
	// avg 350 over 2 occupants is 175 per person, trend is up.
	if len(pro.PersonalizedTips) != 2 {
		t.Fatalf("personalized tips = %v", pro.PersonalizedTips)
	}
}

func TestMachine_LogoutClearsEverything(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	c := &clock{t: time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)}
	m := newTestMachine(t, st, c)
	signIn(t, m)
	_, _ = m.AddBill(ctx, BillInput{Period: "2024-05", ConsumptionKWh: 10, AmountDue: 5})
	_ = m.ActivatePlan(ctx, model.TierPremium)

	m.Logout(ctx)

	if m.Screen() != ScreenLanding {
		t.Fatalf("screen = %s", m.Screen())
	}
	if _, ok := m.Identity(); ok || m.Profile() != nil || len(m.Bills()) != 0 || m.Tier() != model.TierFree {
		t.Fatal("in-memory session not reset")
	}
	for _, slot := range store.Slots {
		if st.Has(slot) {
			t.Errorf("slot %s still persisted", slot)
		}
	}

	fresh := newTestMachine(t, st, c)
	if err := fresh.Resume(ctx); err != nil {
		t.Fatal(err)
	}
	if fresh.Screen() != ScreenLanding || fresh.Tier() != model.TierFree || len(fresh.Bills()) != 0 {
		t.Fatalf("fresh load not empty: screen=%s tier=%s bills=%d", fresh.Screen(), fresh.Tier(), len(fresh.Bills()))
	}
	if _, ok := fresh.Identity(); ok {
		t.Fatal("fresh load has identity")
	}
}

type failingStore struct {
	store.Store
	loadErr error
}

func (f failingStore) Load(context.Context) (store.Snapshot, error) {
	return store.Snapshot{}, f.loadErr
}

func (f failingStore) Save(context.Context, store.Slot, any) error {
	return errors.New("disk full")
}

func (f failingStore) Clear(context.Context) error {
	return errors.New("disk full")
}

func TestMachine_PersistenceFailuresAreNotFatal(t *testing.T) {
	ctx := context.Background()
	loadErr := errors.New("corrupt database")
	m := newTestMachine(t, failingStore{loadErr: loadErr}, &clock{t: time.Now()})

	if err := m.Resume(ctx); !errors.Is(err, loadErr) {
		t.Fatalf("Resume err = %v", err)
	}
	if m.Screen() != ScreenLanding {
		t.Fatalf("screen after failed load = %s", m.Screen())
	}

	signIn(t, m)
	if _, err := m.AddBill(ctx, BillInput{Period: "2024-01", ConsumptionKWh: 1, AmountDue: 1}); err != nil {
		t.Fatalf("AddBill with failing store: %v", err)
	}
	m.Logout(ctx)
	if m.Screen() != ScreenLanding {
		t.Fatalf("Logout with failing store left screen %s", m.Screen())
	}
}
