package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/dadikeladdu/storefront/internal/backend"
	"github.com/dadikeladdu/storefront/internal/config"
	"github.com/dadikeladdu/storefront/internal/session"
	"github.com/dadikeladdu/storefront/internal/store"
	"github.com/dadikeladdu/storefront/internal/view"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Load the persisted session
	sess := session.NewStore(cfg.Session.FilePath)
	if err := sess.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load session: %v\n", err)
		os.Exit(1)
	}

	userID, _, err := sess.Credentials()
	if err != nil {
		fmt.Println("You are not logged in. Run grant-session first.")
		os.Exit(1)
	}

	client := backend.NewClient(cfg.Backend, sess, logger)
	cartStore := store.New(client, sess, logger)
	cartView := view.NewCartView(cartStore, client, sess, os.Stdout, os.Stdin, logger)
	badge := view.NewIndicator(cartStore)
	defer badge.Close()

	ctx := context.Background()

	if _, err := cartStore.FetchCart(ctx, userID); err != nil {
		fmt.Printf("⚠️  Could not fetch your cart: %v\n", err)
	}
	cartView.Render()
	badge.Render(os.Stdout)

	fmt.Println("\nCommands: show | add <product> | inc <product> | dec <product> | remove <product> | clear | coupon <code> | checkout | badge | quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd := fields[0]
		arg := ""
		if len(fields) > 1 {
			arg = fields[1]
		}

		switch cmd {
		case "show":
			if _, err := cartStore.FetchCart(ctx, userID); err != nil {
				fmt.Printf("⚠️  %v\n", err)
			}
			cartView.Render()
		case "add":
			if arg == "" {
				fmt.Println("Usage: add <product>")
				continue
			}
			cartView.AddToCart(ctx, userID, arg, nil)
		case "inc":
			if arg == "" {
				fmt.Println("Usage: inc <product>")
				continue
			}
			cartView.IncrementItem(ctx, userID, arg)
		case "dec":
			if arg == "" {
				fmt.Println("Usage: dec <product>")
				continue
			}
			cartView.DecrementItem(ctx, userID, arg)
		case "remove":
			if arg == "" {
				fmt.Println("Usage: remove <product>")
				continue
			}
			cartView.RemoveItem(ctx, userID, arg)
		case "clear":
			cartView.ClearCart(ctx, userID)
		case "coupon":
			cartView.ApplyCoupon(ctx, userID, arg)
		case "checkout":
			cartView.Checkout(ctx)
		case "badge":
			count, visible := badge.Badge()
			if visible {
				fmt.Printf("🛒 %d item(s) in cart\n", count)
			} else {
				fmt.Println("Cart is empty")
			}
		case "quit", "exit":
			return
		default:
			fmt.Printf("Unknown command: %s\n", cmd)
		}
	}
}
