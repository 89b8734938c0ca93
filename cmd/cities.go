package main

import (
	"github.com/spf13/cobra"

	"github.com/YessenBoranbay/2gis-lead-generator/internal/locale"
)

var citiesCmd = &cobra.Command{
	Use:   "cities",
	Short: "List the known cities per country",
	Run: func(cmd *cobra.Command, args []string) {
		for _, country := range locale.Countries() {
			cmd.Printf("%s:\n", country)
			for _, city := range locale.Cities(country) {
				cmd.Printf("  %s\n", city)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(citiesCmd)
}
