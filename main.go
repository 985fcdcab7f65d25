// txt2woo turns a free-text product description into a WooCommerce record:
// extraction through an LLM, user overrides from flags, CSV export for the
// bulk importer and optional direct upload to the store.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	conf "github.com/alvarogf/txt2woo/internal/config"
	"github.com/alvarogf/txt2woo/internal/db"
	"github.com/alvarogf/txt2woo/internal/llm"
	"github.com/alvarogf/txt2woo/internal/logs"
	"github.com/alvarogf/txt2woo/internal/pipeline"
	"github.com/alvarogf/txt2woo/internal/product"
	"github.com/alvarogf/txt2woo/internal/woo"
)

var ver = "1.0.0"

func main() {
	var (
		text       = flag.String("text", "", "product description (alternative to -file)")
		file       = flag.String("file", "", "read the description from a text file")
		outPath    = flag.String("o", "products.csv", "CSV output path ('-' for stdout)")
		upload     = flag.Bool("upload", false, "push the product to the WooCommerce store")
		verbose    = flag.Bool("v", false, "log to console as well as the log file")
		timeout    = flag.Duration("timeout", 2*time.Minute, "overall deadline for one run")
		flagImages = flag.String("extra-images", "", "extra image URLs attached on upload (comma separated)")

		// Override flags. Each one goes through the matching free-text
		// parser, the same mapping the chat wizard used.
		ovName       = flag.String("name", "", "override: product name")
		ovShortDesc  = flag.String("short-description", "", "override: short description")
		ovDesc       = flag.String("description", "", "override: long description")
		ovPrice      = flag.String("price", "", "override: regular price")
		ovSalePrice  = flag.String("sale-price", "", "override: sale price")
		ovSKU        = flag.String("sku", "", "override: SKU")
		ovType       = flag.String("type", "", "override: product type")
		ovCategories = flag.String("categories", "", "override: categories (commas, '>' for hierarchy)")
		ovTags       = flag.String("tags", "", "override: tags (comma separated)")
		ovImages     = flag.String("images", "", "override: image URLs (comma separated)")
		ovStock      = flag.String("stock", "", "override: stock quantity, free text")
		ovStatus     = flag.String("status", "", "override: status, free text (borrador/publicar/...)")
		ovShipping   = flag.String("shipping", "", "override: shipping text (peso, dimensiones)")
		ovAttrs      = flag.String("attributes", "", "override: attributes ('Color: rojo; Talla = M')")
	)
	flag.Parse()

	_ = godotenv.Load()

	appDir := mustAppDataDir("txt2woo")
	log := logs.New(filepath.Join(appDir, "app.log"), *verbose)
	log.Info().Str("version", ver).Msg("txt2woo run")

	cfgPath := filepath.Join(appDir, "config.json")
	cfg, firstRun, err := conf.LoadOrCreate(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}
	if firstRun {
		fmt.Fprintf(os.Stderr, "created default config: %s — fill in your credentials\n", cfgPath)
	}

	dbh, err := db.OpenAt(appDir)
	if err != nil {
		log.Fatal().Err(err).Msg("ledger open error")
	}
	if err := dbh.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("ledger migrate error")
	}
	sqlDB, _ := dbh.DB.DB()
	defer sqlDB.Close()

	description := *text
	if description == "" && *file != "" {
		description, err = pipeline.ReadDescription(*file)
		if err != nil {
			log.Fatal().Err(err).Str("file", *file).Msg("cannot read description")
		}
	}
	if description == "" && flag.NArg() > 0 {
		description = flag.Arg(0)
	}
	if description == "" {
		fmt.Fprintln(os.Stderr, `usage: txt2woo [flags] "product description"`)
		flag.PrintDefaults()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, *timeout)
	defer cancelTimeout()

	extractor := &llm.Client{
		BaseURL:     cfg.AI.BaseURL,
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		MaxTokens:   cfg.AI.MaxTokens,
		Log:         log.With().Str("component", "llm").Logger(),
	}
	store := woo.New(log.With().Str("component", "woo").Logger(), cfg.Woo, &http.Client{Timeout: 30 * time.Second})

	p := pipeline.New(log, dbh.DB, extractor, store)

	overrides := &product.Overrides{
		Name:             *ovName,
		ShortDescription: *ovShortDesc,
		Description:      *ovDesc,
		RegularPrice:     *ovPrice,
		SalePrice:        *ovSalePrice,
		SKU:              *ovSKU,
		Type:             *ovType,
		Categories:       product.SplitList(*ovCategories, product.SplitOptions{AllowHierarchy: true}),
		Tags:             product.SplitList(*ovTags, product.SplitOptions{}),
		Images:           product.SplitList(*ovImages, product.SplitOptions{}),
		Attributes:       product.ParseAttributesInput(*ovAttrs),
	}
	if qty, ok := product.ParseStockQuantity(*ovStock); ok {
		overrides.StockQuantity = &qty
	}
	if status, ok := product.ParseStatus(*ovStatus); ok {
		overrides.Status = string(status)
	}
	if shipping := product.ParseShippingDetails(*ovShipping); shipping.Weight != "" || shipping.Dimensions != nil {
		overrides.Weight = shipping.Weight
		overrides.Dimensions = shipping.Dimensions
	}

	res, err := p.Generate(ctx, description, overrides)
	if err != nil {
		log.Fatal().Err(err).Msg("generation failed")
	}
	fmt.Fprintf(os.Stderr, "product: %s\n", res.Record.Name)

	switch *outPath {
	case "-":
		fmt.Print(res.CSV)
	case "":
		// no CSV requested
	default:
		if err := os.WriteFile(*outPath, []byte(res.CSV), 0o644); err != nil {
			log.Fatal().Err(err).Str("path", *outPath).Msg("cannot write CSV")
		}
		p.NoteCSVPath(res.RunID, *outPath)
		fmt.Fprintf(os.Stderr, "CSV written to %s\n", *outPath)
	}

	if *upload {
		extra := product.SplitList(*flagImages, product.SplitOptions{})
		created, err := p.Upload(ctx, res.RunID, res.Record, extra)
		if err != nil {
			log.Fatal().Err(err).Msg("upload failed")
		}
		fmt.Fprintf(os.Stderr, "uploaded: id=%d %s\n", created.ID, created.Permalink)
	}
}

func mustAppDataDir(name string) string {
	base, err := os.UserConfigDir()
	if err != nil {
		panic(err)
	}
	p := filepath.Join(base, name)
	_ = os.MkdirAll(p, 0o755)
	return p
}
