package tui

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/theirongolddev/energipro/internal/model"
	"github.com/theirongolddev/energipro/internal/session"

	"github.com/charmbracelet/huh"
)

// authValues holds the sign-in form state. Values survive a failed attempt
// so the form can be rebuilt pre-filled.
type authValues struct {
	mode     session.Mode
	name     string
	email    string
	password string
}

func (v *authValues) credentials() session.Credentials {
	return session.Credentials{
		Mode:     v.mode,
		Email:    v.email,
		Password: v.password,
		Name:     v.name,
	}
}

func newAuthForm(vals *authValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[session.Mode]().
				Title("Welcome to Energipro").
				Description("Sign in to continue, or create an account.").
				Options(
					huh.NewOption("Sign in", session.ModeLogin),
					huh.NewOption("Create account", session.ModeRegister),
				).
				Value(&vals.mode),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Full name").
				Placeholder("Your name").
				Value(&vals.name),
		).WithHideFunc(func() bool { return vals.mode != session.ModeRegister }),
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&vals.email),
			huh.NewInput().
				Title("Password").
				Description(fmt.Sprintf("At least %d characters.", session.MinPasswordLength)).
				EchoMode(huh.EchoModePassword).
				Value(&vals.password),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}

// quizValues holds the onboarding answers.
type quizValues struct {
	appliances []string
	homeSize   model.HomeSize
	occupants  int
}

func (v *quizValues) profile() model.Profile {
	return model.Profile{
		Appliances: v.appliances,
		HomeSize:   v.homeSize,
		Occupants:  v.occupants,
	}
}

func newQuizForm(vals *quizValues) *huh.Form {
	appliances := make([]huh.Option[string], len(model.Appliances))
	for i, a := range model.Appliances {
		appliances[i] = huh.NewOption(a.Label, a.Tag)
	}

	sizes := make([]huh.Option[model.HomeSize], len(model.HomeSizes))
	for i, h := range model.HomeSizes {
		sizes[i] = huh.NewOption(h.Label(), h)
	}

	occupants := make([]huh.Option[int], 0, model.MaxOccupantsOption)
	for n := 1; n <= model.MaxOccupantsOption; n++ {
		label := strconv.Itoa(n)
		if n == model.MaxOccupantsOption {
			label += "+"
		}
		occupants = append(occupants, huh.NewOption(label, n))
	}

	if vals.homeSize == "" {
		vals.homeSize = model.HomeMedium
	}
	if vals.occupants == 0 {
		vals.occupants = 2
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Which appliances do you use at home?").
				Description("Space to toggle, Enter to continue.").
				Options(appliances...).
				Height(len(appliances)+2).
				Value(&vals.appliances),
		),
		huh.NewGroup(
			huh.NewSelect[model.HomeSize]().
				Title("How big is your home?").
				Options(sizes...).
				Value(&vals.homeSize),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("How many people live there?").
				Options(occupants...).
				Value(&vals.occupants),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}

// billValues holds the new-bill form state as typed.
type billValues struct {
	period string
	kwh    string
	amount string
	photo  string
}

func (v *billValues) input() (session.BillInput, error) {
	kwh, err := parseDecimal(v.kwh)
	if err != nil {
		return session.BillInput{}, fmt.Errorf("consumption: %w", err)
	}
	amount, err := parseDecimal(v.amount)
	if err != nil {
		return session.BillInput{}, fmt.Errorf("amount: %w", err)
	}
	return session.BillInput{
		Period:         strings.TrimSpace(v.period),
		ConsumptionKWh: kwh,
		AmountDue:      amount,
	}, nil
}

func newBillForm(vals *billValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Bill month").
				Description("YYYY-MM").
				Value(&vals.period).
				Validate(func(s string) error {
					_, err := model.ParsePeriod(strings.TrimSpace(s))
					return err
				}),
			huh.NewInput().
				Title("Consumption (kWh)").
				Placeholder("320").
				Value(&vals.kwh).
				Validate(validateDecimal),
			huh.NewInput().
				Title("Amount due").
				Placeholder("245,90").
				Value(&vals.amount).
				Validate(validateDecimal),
			huh.NewInput().
				Title("Photo of the bill").
				Description("Optional path to an image or PDF.").
				Value(&vals.photo).
				Validate(validatePhotoPath),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}

var errNotANumber = errors.New("enter a non-negative number")

// parseDecimal accepts both "1234.5" and "1.234,5" style input.
func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, errNotANumber
	}
	return v, nil
}

func validateDecimal(s string) error {
	_, err := parseDecimal(s)
	return err
}

func validatePhotoPath(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	info, err := os.Stat(s)
	if err != nil {
		return errors.New("file not found")
	}
	if info.IsDir() {
		return errors.New("path is a directory")
	}
	return nil
}
