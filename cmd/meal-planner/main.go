package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"maternal-meal-planner/internal/catalog"
	"maternal-meal-planner/internal/config"
	"maternal-meal-planner/internal/database"
	"maternal-meal-planner/internal/llm"
	"maternal-meal-planner/internal/planner"
	"maternal-meal-planner/internal/report"
)

func main() {
	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	catalogRepo := catalog.NewRepository(db.SQL)
	mealPlanner := planner.NewPlanner(catalogRepo, planner.Options{
		CooldownWindow: cfg.CooldownWindow,
	})

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "seed":
		inserted, err := catalogRepo.SeedDefaults(ctx)
		if err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		count, err := catalogRepo.Count(ctx)
		if err != nil {
			log.Fatalf("Failed to count food items: %v", err)
		}
		fmt.Printf("Inserted %d food items, catalog now holds %d.\n", inserted, count)

	case "plan":
		planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
		days := planCmd.Int("days", 7, "Number of days to plan (1-30)")
		trimester := planCmd.Int("trimester", 0, "Pregnancy trimester (1-3)")
		diet := planCmd.String("diet", "", "Diet filter: vegetarian, vegan, non_vegetarian, any")
		region := planCmd.String("region", "", "Regional preference, e.g. \"South India\"")
		conditions := planCmd.String("conditions", "", "Comma-separated health conditions, e.g. diabetes,hypertension")
		seed := planCmd.Int64("seed", 0, "Optional tie-break seed for reproducible plans")
		narrate := planCmd.Bool("narrate", false, "Append an AI summary (requires GEMINI_API_KEY)")
		planCmd.Parse(os.Args[2:])

		query := planner.PlanQuery{
			Days:             *days,
			Trimester:        *trimester,
			Diet:             catalog.DietType(*diet),
			Region:           *region,
			HealthConditions: splitConditions(*conditions),
			Seed:             *seed,
		}

		plan, err := mealPlanner.Generate(ctx, query)
		if err != nil {
			log.Fatalf("Failed to generate plan: %v", err)
		}
		fmt.Println(report.FormatPlanMarkdown(plan))

		if *narrate {
			if cfg.GeminiAPIKey == "" {
				log.Fatal("GEMINI_API_KEY environment variable not set")
			}
			geminiClient, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
			if err != nil {
				log.Fatalf("Failed to initialize Gemini client: %v", err)
			}
			defer geminiClient.Close()

			summary, err := report.NewNarrator(geminiClient).Narrate(ctx, plan)
			if err != nil {
				log.Fatalf("Narration failed: %v", err)
			}
			fmt.Println(summary)
		}

	case "recommend":
		recCmd := flag.NewFlagSet("recommend", flag.ExitOnError)
		trimester := recCmd.Int("trimester", 0, "Pregnancy trimester (1-3)")
		diet := recCmd.String("diet", "", "Diet filter: vegetarian, vegan, non_vegetarian, any")
		region := recCmd.String("region", "", "Regional preference")
		conditions := recCmd.String("conditions", "", "Comma-separated health conditions")
		count := recCmd.Int("count", 10, "Number of recommendations")
		recCmd.Parse(os.Args[2:])

		query := planner.PlanQuery{
			Trimester:        *trimester,
			Diet:             catalog.DietType(*diet),
			Region:           *region,
			HealthConditions: splitConditions(*conditions),
		}

		entries, err := mealPlanner.Recommend(ctx, query, *count)
		if err != nil {
			log.Fatalf("Failed to generate recommendations: %v", err)
		}
		fmt.Println(report.FormatRecommendationsMarkdown(entries))

	case "foods":
		items, err := catalogRepo.ListAll(ctx)
		if err != nil {
			log.Fatalf("Failed to list foods: %v", err)
		}
		for _, item := range items {
			name := item.NameEnglish
			if item.NameHindi != "" {
				name = fmt.Sprintf("%s (%s)", item.NameEnglish, item.NameHindi)
			}
			fmt.Printf("%4d  %-35s %-12s %s\n", item.ID, name, item.Category, item.Diet)
		}

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func splitConditions(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}

func printUsage() {
	fmt.Println("Usage: meal-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  seed         Load the default food catalog into the database")
	fmt.Println("  plan         Generate a trimester-safe meal plan")
	fmt.Println("  recommend    Rank the safest, most nutritious foods for a trimester")
	fmt.Println("  foods        List the food catalog")
}
