package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"precastcatalog/configurator"
)

var (
	calcOptions configurator.Options
	calcDims    map[string]string
	calcCatalog string

	exportOutput string

	seedPassword string
)

var calcCmd = &cobra.Command{
	Use:   "calc <shape>",
	Short: "Compute one product configuration and print it as JSON",
	Long: `Runs the configurator offline against the default catalog (or --catalog).

Example:
  precastcatalog calc culvert --dims Wi=2000,Hi=1500,L=1000 --qty 4`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var catalog *configurator.Catalog
		if calcCatalog != "" {
			c, err := configurator.LoadCatalog(calcCatalog)
			if err != nil {
				return err
			}
			catalog = c
		}

		dims := make(map[string]float64, len(calcDims))
		for k, v := range calcDims {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("dimension %s: %q is not a number", k, v)
			}
			dims[k] = f
		}

		res, err := configurator.New(catalog).Configure(args[0], configurator.Request{Options: calcOptions, Dims: dims})
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

var exportQuotesCmd = &cobra.Command{
	Use:   "export-quotes",
	Short: "Write every quotation in the store to an XLSX workbook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		a, err := newApp(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		quotes, err := a.quotes.AllQuotes(cmd.Context())
		if err != nil {
			return err
		}

		f, err := os.Create(exportOutput)
		if err != nil {
			return err
		}
		if err := a.documents.WriteQuotesXLSX(f, quotes); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		log.Info("[Export] quotations written", zap.Int("count", len(quotes)), zap.String("file", exportOutput))
		return nil
	},
}

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the super admin account if it does not exist",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		a, err := newApp(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		password := seedPassword
		if password == "" {
			password = cfg.SuperAdminPassword
		}
		created, err := a.auth.EnsureSuperAdmin(cmd.Context(), password)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintln(cmd.OutOrStdout(), "super admin created")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "super admin already exists")
		}
		return nil
	},
}

func init() {
	f := calcCmd.Flags()
	f.StringVar(&calcOptions.Units, "units", "mm", "unit of --dims (mm or in)")
	f.StringVar(&calcOptions.Material, "material", "", "material key")
	f.IntVar(&calcOptions.Qty, "qty", 1, "number of units")
	f.StringVar(&calcOptions.Mix, "mix", "", "concrete mix key")
	f.StringVar(&calcOptions.Steel, "steel", "", "reinforcement key")
	f.StringVar(&calcOptions.Inner, "inner", "", "inner finish key")
	f.StringVar(&calcOptions.Outer, "outer", "", "outer finish key")
	f.StringToStringVar(&calcDims, "dims", nil, "dimensions as name=value pairs")
	f.StringVar(&calcCatalog, "catalog", "", "catalog YAML file")

	exportQuotesCmd.Flags().StringVarP(&exportOutput, "output", "o", "quotations.xlsx", "output file")

	seedAdminCmd.Flags().StringVar(&seedPassword, "password", "", "initial password (default SUPER_ADMIN_PASSWORD or the built-in default)")
}
