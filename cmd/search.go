package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/YessenBoranbay/2gis-lead-generator/internal/engine"
	"github.com/YessenBoranbay/2gis-lead-generator/internal/export"
	"github.com/YessenBoranbay/2gis-lead-generator/internal/fetcher"
	"github.com/YessenBoranbay/2gis-lead-generator/internal/model"
)

var (
	searchCity         string
	searchCountry      string
	searchCategory     string
	searchOutput       string
	searchMaxResults   int
	searchHeadless     bool
	searchWholeCountry bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search 2GIS and export results to Excel",
	Long: `Search 2GIS business listings for one city or a whole country and
export the collected companies to an XLSX workbook.

Examples:
  2gis-lead-generator search --city Москва --category Кафе
  2gis-lead-generator search -c "Санкт-Петербург" --category Рестораны -m 50
  2gis-lead-generator search --whole-country --country Казахстан --category Аптеки`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !searchWholeCountry && searchCity == "" {
			return eris.New("search: --city is required unless --whole-country is set")
		}

		cmd.Println("Начинаю поиск компаний...")
		cmd.Printf("   Страна: %s\n", searchCountry)
		if searchWholeCountry {
			cmd.Println("   Режим: вся страна")
		} else {
			cmd.Printf("   Город: %s\n", searchCity)
		}
		if searchCategory != "" {
			cmd.Printf("   Категория: %s\n", searchCategory)
		}
		if searchMaxResults > 0 {
			cmd.Printf("   Максимум результатов: %d\n", searchMaxResults)
		}

		f, err := fetcher.NewChrome(fetcher.Options{
			Headless:    searchHeadless,
			UserAgent:   cfg.Scraper.UserAgent,
			NavTimeout:  time.Duration(cfg.Scraper.NavTimeoutSecs) * time.Second,
			SettleDelay: time.Duration(cfg.Scraper.SettleDelaySecs) * time.Second,
		})
		if err != nil {
			return err
		}
		defer f.Close()

		e := engine.New(f, engine.Options{
			MaxPages:    cfg.Scraper.MaxPages,
			PageDelay:   time.Duration(cfg.Scraper.PageDelaySecs) * time.Second,
			EnrichDelay: time.Duration(cfg.Scraper.EnrichDelaySecs) * time.Second,
		})
		e.OnProgress(func(collected, target int, message string) {
			if target > 0 {
				cmd.Printf("   [%d/%d] %s\n", collected, target, message)
			} else {
				cmd.Printf("   [%d] %s\n", collected, message)
			}
		})

		req := model.SearchRequest{
			City:       searchCity,
			Category:   searchCategory,
			Country:    searchCountry,
			MaxResults: searchMaxResults,
		}

		var companies []model.Company
		var searchErr error
		if searchWholeCountry {
			companies, searchErr = e.SearchCountry(cmd.Context(), req)
		} else {
			companies, searchErr = e.Search(cmd.Context(), req)
		}
		if searchErr != nil {
			zap.L().Error("search finished with error",
				zap.Int("collected", len(companies)),
				zap.Error(searchErr))
			if len(companies) == 0 {
				return searchErr
			}
			cmd.Printf("Поиск прерван ошибкой: %v\n", searchErr)
			cmd.Printf("Экспортирую собранные %d компаний...\n", len(companies))
		}

		if len(companies) == 0 {
			cmd.Println("Компании не найдены. Проверьте параметры поиска.")
			return nil
		}

		cmd.Printf("\nНайдено компаний: %d\n", len(companies))
		path, err := export.WriteFile(companies, searchOutput)
		if err != nil {
			return err
		}
		cmd.Printf("Готово! Результаты сохранены в: %s\n", path)

		if searchErr != nil {
			return searchErr
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchCity, "city", "c", "", "city name, e.g. Москва")
	searchCmd.Flags().StringVar(&searchCountry, "country", "Россия", "country: Россия, Казахстан, Узбекистан")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "business category, e.g. Кафе")
	searchCmd.Flags().StringVarP(&searchOutput, "output", "o", "2gis_results.xlsx", "output XLSX file")
	searchCmd.Flags().IntVarP(&searchMaxResults, "max-results", "m", 0, "maximum number of results (0 = unlimited)")
	searchCmd.Flags().BoolVar(&searchHeadless, "headless", true, "run the browser headless")
	searchCmd.Flags().BoolVar(&searchWholeCountry, "whole-country", false, "search every known city of the country")
	rootCmd.AddCommand(searchCmd)
}
