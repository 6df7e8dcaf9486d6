package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AlekseyZapadovnikov/org-chart/conf"
	"github.com/AlekseyZapadovnikov/org-chart/internal/models"
	"github.com/AlekseyZapadovnikov/org-chart/internal/repository"
)

// main запускает утилиту подготовки данных и нагрузочной проверки оргструктуры.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "orgchart-seed",
		Short:        "Seed and exercise the org chart service",
		SilenceUsage: true,
	}
	root.AddCommand(newDBCmd(), newGenerateCmd(), newBenchCmd())
	return root
}

type datasetFlags struct {
	file     string
	generate int
	seed     int64
}

func (f *datasetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "file", "", "YAML or JSON seed file (demo organization when empty)")
	cmd.Flags().IntVar(&f.generate, "generate", 0, "generate a synthetic organization of N employees instead of reading a file")
	cmd.Flags().Int64Var(&f.seed, "seed", time.Now().UnixNano(), "random seed for --generate")
}

func (f *datasetFlags) employees() ([]models.Employee, error) {
	switch {
	case f.file != "" && f.generate > 0:
		return nil, fmt.Errorf("--file and --generate are mutually exclusive")
	case f.file != "":
		return repository.LoadSeedFile(f.file)
	case f.generate > 0:
		return repository.GenerateEmployees(f.generate, rand.New(rand.NewSource(f.seed))), nil
	default:
		return repository.DemoEmployees(), nil
	}
}

// newDBCmd создаёт схему в PostgreSQL и заменяет в ней коллекцию сотрудников.
func newDBCmd() *cobra.Command {
	var (
		cfgPath string
		data    datasetFlags
	)
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Create the employees table and load a dataset into PostgreSQL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := conf.Load(cfgPath)
			if err != nil {
				return err
			}
			employees, err := data.employees()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			storage, err := repository.NewStorage(ctx, &cfg.DBConf)
			if err != nil {
				return err
			}
			defer storage.Close()

			if err := storage.EnsureSchema(ctx); err != nil {
				return err
			}
			if err := storage.ReplaceEmployees(ctx, employees); err != nil {
				return err
			}
			slog.Info("Employees seeded", "count", len(employees), "database", cfg.DBConf.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", envOr("CONFIG_PATH", "./conf/config.json"), "path to the service config")
	data.register(cmd)
	return cmd
}

// newGenerateCmd печатает синтетическую оргструктуру в формате seed-файла.
func newGenerateCmd() *cobra.Command {
	var (
		count int
		seed  int64
		out   string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic organization as a YAML seed file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive")
			}
			employees := repository.GenerateEmployees(count, rand.New(rand.NewSource(seed)))

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return repository.WriteSeedFile(w, employees)
		},
	}
	cmd.Flags().IntVar(&count, "count", 100, "number of employees")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (stdout when empty)")
	return cmd
}

func envOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
