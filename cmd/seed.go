package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"dashtutor/internal/config"
	"dashtutor/internal/learner"
	"dashtutor/internal/skillcache"
	"dashtutor/internal/store"
)

// seedFile is the on-disk shape consumed by the seed command: curriculum
// documents plus an optional question bank.
type seedFile struct {
	Skills    []skillcache.SkillDocument `yaml:"skills"`
	Questions []learner.Question         `yaml:"questions"`
}

var seedCmd = &cobra.Command{
	Use:   "seed <curriculum.yaml>",
	Short: "Load curriculum and question documents into the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read seed file: %w", err)
		}
		var seed seedFile
		if err := yaml.Unmarshal(raw, &seed); err != nil {
			return fmt.Errorf("parse seed file: %w", err)
		}

		log, err := zap.NewProduction()
		if err != nil {
			return err
		}
		defer log.Sync()

		// Flatten locally first so a broken curriculum never reaches the
		// store.
		if _, err := skillcache.Build(seed.Skills, log); err != nil {
			return err
		}

		ctx := cmd.Context()
		handler, err := store.Connect(ctx, cfg.Mongo, log)
		if err != nil {
			return err
		}
		defer handler.Close(ctx)

		if err := handler.ReplaceSkillDocuments(ctx, seed.Skills); err != nil {
			return err
		}
		inserted, err := handler.InsertQuestions(ctx, seed.Questions)
		if err != nil {
			return err
		}
		fmt.Printf("seeded %d skill documents, %d new questions\n", len(seed.Skills), inserted)
		return nil
	},
}
