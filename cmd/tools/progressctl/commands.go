package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"carecase-workers/internal/common/validation"
	"carecase-workers/internal/models"
	"carecase-workers/internal/progress"
	"carecase-workers/internal/records"
	"carecase-workers/pkg/registry"

	"github.com/spf13/cobra"
)

func lookupDomain(id string) (*progress.Domain, error) {
	d, ok := progress.Lookup(models.DomainID(id))
	if !ok {
		ids := make([]string, 0, len(progress.Domains()))
		for _, d := range progress.Domains() {
			ids = append(ids, string(d.ID))
		}
		return nil, fmt.Errorf("unknown domain %q (known: %s)", id, strings.Join(ids, ", "))
	}
	return d, nil
}

func domainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "List application domains and their status vocabulary",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := [][]string{}
			for _, d := range progress.Domains() {
				variants := []string{}
				for _, v := range d.Variants() {
					variants = append(variants, fmt.Sprintf("%s(%d)", v.Name, len(v.Steps)))
				}
				rows = append(rows, []string{
					string(d.ID),
					d.Name,
					strings.Join(variants, " "),
					strings.Join(d.Vocabulary(), ", "),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Domain", "Name", "Variants", "Statuses"}, rows))
			return nil
		},
	}
}

func resolveCmd() *cobra.Command {
	var (
		domain   string
		status   string
		followUp bool
		dates    map[string]string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Render the stepper a status maps to",
		Example: `  progressctl resolve --domain cancer-treatment --status "Interview Process" --date interview_date=2024-03-05
  progressctl resolve --domain post-treatment --status Closed --follow-up`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := lookupDomain(domain)
			if err != nil {
				return err
			}

			res := d.Resolve(&models.ApplicationRecord{
				Domain:                     d.ID,
				Status:                     status,
				FollowUpRequiredPreviously: followUp,
				Dates:                      dates,
			})

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}

			fmt.Fprint(out, keyValues("",
				pair{"Domain", d.Name},
				pair{"Status", strconv.Quote(res.Status)},
				pair{"Variant", res.Variant},
				pair{"Step", fmt.Sprintf("%d of %d", res.ActiveStep+1, len(res.Steps))},
			))
			if !res.Recognized {
				fmt.Fprintln(out, warnMsg("status %q is not in the %s table, showing the first step", res.Status, d.ID))
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, renderStepper(res))
			return nil
		},
	}
	cmd.Flags().StringVar(&domain, "domain", "", "Application domain (see `progressctl domains`)")
	cmd.Flags().StringVar(&status, "status", "", "Backend status string, matched verbatim")
	cmd.Flags().BoolVar(&followUp, "follow-up", false, "Record previously required a follow-up")
	cmd.Flags().StringToStringVar(&dates, "date", nil, "Date field used in narratives, as field=value")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the resolution as JSON")
	_ = cmd.MarkFlagRequired("domain")
	return cmd
}

func transitionsCmd() *cobra.Command {
	var domain, from string

	cmd := &cobra.Command{
		Use:   "transitions",
		Short: "List the statuses an application may move to",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := lookupDomain(domain)
			if err != nil {
				return err
			}
			allowed := records.AllowedTransitions(d, from)
			out := cmd.OutOrStdout()
			if len(allowed) == 0 {
				fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("%q is terminal in %s", from, d.ID)))
				return nil
			}
			for _, s := range allowed {
				fmt.Fprintf(out, "%s -> %s\n", strconv.Quote(from), s)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&domain, "domain", "", "Application domain")
	cmd.Flags().StringVar(&from, "from", "", "Current status")
	_ = cmd.MarkFlagRequired("domain")
	return cmd
}

func validateCmd() *cobra.Command {
	var registryPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check every domain table and the activity registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var errs []error

			for _, d := range progress.Domains() {
				if err := d.Validate(); err != nil {
					fmt.Fprintln(out, errorMsg("%s: %v", d.ID, err))
					errs = append(errs, err)
					continue
				}
				fmt.Fprintln(out, successMsg("%s: %d variants, %d statuses", d.ID, len(d.Variants()), len(d.Vocabulary())))
			}

			reg, err := registry.Load(registryPath)
			if err == nil {
				err = reg.Validate()
			}
			if err == nil {
				_, err = validation.NewValidator(reg)
			}
			if err != nil {
				fmt.Fprintln(out, errorMsg("registry: %v", err))
				errs = append(errs, err)
			} else {
				fmt.Fprintln(out, successMsg("registry: %d activities", len(reg.Activities)))
			}

			if len(errs) > 0 {
				return fmt.Errorf("validation failed: %w", errors.Join(errs...))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&registryPath, "registry", "", "Activity registry file (default: compiled-in)")
	return cmd
}
