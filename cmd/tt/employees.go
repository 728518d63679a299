package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEmployeeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employee",
		Short: "Employee operations",
	}

	var name, email string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := a.svc.CreateEmployee(cmd.Context(), a.call(), name, email)
			if err != nil {
				return err
			}
			return printJSON(e)
		},
	}
	create.Flags().StringVar(&name, "name", "", "employee name")
	create.Flags().StringVar(&email, "email", "", "employee email")

	list := &cobra.Command{
		Use:   "list",
		Short: "List employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, err := a.svc.ListEmployees(cmd.Context())
			if err != nil {
				return err
			}
			for _, e := range all {
				fmt.Printf("%-36s  %-20s  %s\n", e.ID, truncStr(e.Name, 20), e.Email)
			}
			return nil
		},
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.svc.GetEmployee(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(e)
		},
	}

	cmd.AddCommand(create, list, get)
	return cmd
}
