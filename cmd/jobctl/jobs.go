package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"jobportal-web/internal/forms"
	"jobportal-web/internal/portalapi"
)

func jobsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List and manage job postings",
	}
	cmd.AddCommand(jobsListCmd(g), jobsSaveCmd(g, false), jobsSaveCmd(g, true), jobsDeleteCmd(g))
	return cmd
}

func jobsListCmd(g *globals) *cobra.Command {
	var q portalapi.JobQuery

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := g.client()
			if err != nil {
				return err
			}

			list, err := client.ListJobs(cmd.Context(), g.token, q)
			if err != nil {
				return fmt.Errorf("failed to list jobs: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"jobs":  list.Jobs,
				"total": list.TotalJobs,
				"page":  q.Page,
			})
		},
	}

	cmd.Flags().StringVarP(&q.Search, "search", "s", "", "Search term")
	cmd.Flags().IntVarP(&q.Page, "page", "p", 1, "Page number")
	cmd.Flags().IntVarP(&q.Limit, "limit", "l", 10, "Page size")
	return cmd
}

// jobsSaveCmd builds "create" or "update <id>"; both run the same checks as the web form
func jobsSaveCmd(g *globals, update bool) *cobra.Command {
	var in forms.JobInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Post a new job (admin)",
		Args:  cobra.NoArgs,
	}
	if update {
		cmd.Use = "update <id>"
		cmd.Short = "Replace a job posting (admin)"
		cmd.Args = cobra.ExactArgs(1)
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if update {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			in.ID = id
		}

		client, err := g.client()
		if err != nil {
			return err
		}

		form := forms.NewJobForm(client, nil, nil)
		if err := form.Submit(cmd.Context(), g.token, in); err != nil {
			return err
		}

		if update {
			fmt.Fprintf(cmd.OutOrStdout(), "Job %d updated\n", in.ID)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Job created")
		}
		return nil
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "Job title")
	cmd.Flags().StringVar(&in.Description, "description", "", "Job description")
	cmd.Flags().StringVar(&in.Company, "company", "", "Company name")
	cmd.Flags().StringVar(&in.Location, "location", "", "Location")
	cmd.Flags().StringVar(&in.SalaryRange, "salary", "", "Salary")
	return cmd
}

func jobsDeleteCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a job posting (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			token, err := g.requireToken()
			if err != nil {
				return err
			}
			client, err := g.client()
			if err != nil {
				return err
			}

			if err := client.DeleteJob(cmd.Context(), token, id); err != nil {
				return fmt.Errorf("failed to delete job %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Job %d deleted\n", id)
			return nil
		},
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid job id %q", raw)
	}
	return id, nil
}
