package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/medicalife/patient-api/internal/model"
	"github.com/medicalife/patient-api/pkg/messaging"
	"github.com/medicalife/patient-api/pkg/messaging/redis"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Refresh and print the patient list",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			ok := a.store.Load(ctx)
			// a failed refresh still shows the cached list
			if err := renderPatients(cmd.OutOrStdout(), a.store.Patients()); err != nil {
				return err
			}
			if !ok {
				return errFailed
			}
			return nil
		}),
	}
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print one patient",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			p, err := a.api.Get(ctx, args[0])
			if err != nil {
				return err
			}
			return renderPatient(cmd.OutOrStdout(), p)
		}),
	}
}

func createCmd() *cobra.Command {
	f := &patientFlags{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a patient",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			if !a.store.Create(ctx, f.input()) {
				return errFailed
			}
			return nil
		}),
	}
	f.bind(cmd)
	return cmd
}

func updateCmd() *cobra.Command {
	f := &patientFlags{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of a patient",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			p, err := a.api.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if err := f.apply(cmd, p); err != nil {
				return err
			}
			if !a.store.Update(ctx, p) {
				return errFailed
			}
			return nil
		}),
	}
	f.bind(cmd)
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a patient",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			if !a.store.Delete(ctx, args[0]) {
				return errFailed
			}
			return nil
		}),
	}
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print patient events as they are published",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadEnv()
			if err != nil {
				return err
			}
			if cfg.RedisURL == "" {
				return errors.New("PATIENTCTL_REDIS_URL must be set to watch events")
			}

			log := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			broker, err := redis.NewRedisBroker(redis.Config{URL: cfg.RedisURL}, log)
			if err != nil {
				return err
			}
			defer broker.Close()

			out := cmd.OutOrStdout()
			return messaging.Consume(cmd.Context(), broker, cfg.Channel, func(msg messaging.Message) error {
				return renderEvent(out, msg)
			}, func(err error) {
				log.Warn().Err(err).Msg("skipped event")
			})
		},
	}
}

type patientFlags struct {
	name          string
	email         string
	birthDate     string
	city          string
	postalCode    string
	state         string
	streetAddress string
}

func (f *patientFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "full name")
	fs.StringVar(&f.email, "email", "", "email address")
	fs.StringVar(&f.birthDate, "birth-date", "", "birth date, e.g. 1990-04-21")
	fs.StringVar(&f.city, "city", "", "city")
	fs.StringVar(&f.postalCode, "postal-code", "", "postal code")
	fs.StringVar(&f.state, "state", "", "state")
	fs.StringVar(&f.streetAddress, "street-address", "", "street address")
}

func (f *patientFlags) input() *model.PatientInput {
	return &model.PatientInput{
		Name:          f.name,
		Email:         f.email,
		BirthDate:     f.birthDate,
		City:          f.city,
		PostalCode:    f.postalCode,
		State:         f.state,
		StreetAddress: f.streetAddress,
	}
}

// apply copies only the flags given on the command line onto p.
func (f *patientFlags) apply(cmd *cobra.Command, p *model.Patient) error {
	fs := cmd.Flags()
	if fs.Changed("birth-date") {
		t, err := model.ParseBirthDate(f.birthDate)
		if err != nil {
			return err
		}
		p.BirthDate = t
	}

	fields := []struct {
		flag  string
		value string
		dst   *string
	}{
		{"name", f.name, &p.Name},
		{"email", f.email, &p.Email},
		{"city", f.city, &p.City},
		{"postal-code", f.postalCode, &p.PostalCode},
		{"state", f.state, &p.State},
		{"street-address", f.streetAddress, &p.StreetAddress},
	}
	for _, field := range fields {
		if fs.Changed(field.flag) {
			*field.dst = field.value
		}
	}
	return nil
}

func renderPatients(w io.Writer, patients []*model.Patient) error {
	sorted := make([]*model.Patient, len(patients))
	copy(sorted, patients)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOME\tEMAIL\tNASCIMENTO\tENDEREÇO")
	for _, p := range sorted {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			p.ID,
			p.Name,
			p.Email,
			formatBirthDate(p.BirthDate),
			model.FormatAddress(p),
		)
	}
	return tw.Flush()
}

func renderPatient(w io.Writer, p *model.Patient) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", p.ID)
	fmt.Fprintf(tw, "Nome:\t%s\n", p.Name)
	fmt.Fprintf(tw, "Email:\t%s\n", p.Email)
	fmt.Fprintf(tw, "Nascimento:\t%s\n", formatBirthDate(p.BirthDate))
	fmt.Fprintf(tw, "CEP:\t%s\n", p.PostalCode)
	fmt.Fprintf(tw, "Endereço:\t%s\n", model.FormatAddress(p))
	return tw.Flush()
}

func renderEvent(w io.Writer, msg messaging.Message) error {
	_, err := fmt.Fprintf(w, "%s %s %s\n", msg.OccurredAt.Local().Format(time.DateTime), msg.Type, msg.Payload)
	return err
}

func formatBirthDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.UTC().Format("02/01/2006")
}
