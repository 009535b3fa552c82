package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"finmarket/domain"
	"finmarket/service"
)

func calcCmd() *cobra.Command {
	var (
		input     domain.LoanInput
		graceDays int
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Print the loan payment calculation",
		Example: `  finmarket calc --amount 300000 --rate 12.5 --term 24
  finmarket calc --amount 100000 --rate 19.9 --grace-days 120`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := service.NewLoanService(nil, 0, nil)
			out := cmd.OutOrStdout()

			if cmd.Flags().Changed("grace-days") {
				grace, err := svc.CalculateGrace(domain.GraceInput{
					Amount:       input.Amount,
					InterestRate: input.InterestRate,
					GraceDays:    graceDays,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Grace period:   %d days\n", grace.GraceDays)
				fmt.Fprintf(out, "Interest saved: %s\n", grace.SavingsDisplay)
				return nil
			}

			result, err := svc.CalculateLoan(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Monthly payment: %s\n", result.MonthlyPaymentDisplay)
			fmt.Fprintf(out, "Total payment:   %s\n", result.TotalPaymentDisplay)
			fmt.Fprintf(out, "Overpayment:     %s\n", result.OverpaymentDisplay)
			fmt.Fprintf(out, "Term:            %d months (%s years)\n", input.TermMonths, result.TermYears)
			return nil
		},
	}

	cmd.Flags().Float64Var(&input.Amount, "amount", service.DefaultLoanAmount, "loan amount")
	cmd.Flags().Float64Var(&input.InterestRate, "rate", 0, "annual interest rate, percent")
	cmd.Flags().IntVar(&input.TermMonths, "term", service.DefaultLoanTerm, "term in months")
	cmd.Flags().IntVar(&graceDays, "grace-days", service.DefaultGraceDays, "credit card grace period in days")
	return cmd
}
