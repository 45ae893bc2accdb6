package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"gestfin/database"
	"gestfin/handlers"
	"gestfin/ledger"
	"gestfin/middleware"
)

func main() {
	noExit := flag.Bool("no-exit", false, "Don't exit after database reset")
	resetDB := flag.Bool("reset-db", false, "Force reset the database")
	flag.Parse()

	isResetDB := os.Getenv("RESET_DB") == "true" || *resetDB

	err := database.InitDB()
	if err != nil {
		log.Fatal(err)
	}

	if isResetDB {
		log.Println("Running in database reset mode")
		if err := database.ResetDB(); err != nil {
			log.Fatal(err)
		}
		if !*noExit {
			log.Println("Database reset completed successfully. Exiting.")
			return
		}
	}

	svc := ledger.NewService(database.DB)

	r := mux.NewRouter()
	r.Use(middleware.EnableCORS)

	// Register routes with both direct paths and /api prefix to maintain
	// compatibility with older clients.
	registerRoutes(r, svc)
	apiRouter := r.PathPrefix("/api").Subrouter()
	registerRoutes(apiRouter, svc)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Handler:      r,
		Addr:         ":" + port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	log.Printf("Starting server on port %s...", port)
	log.Fatal(srv.ListenAndServe())
}

// registerRoutes sets up all API routes
func registerRoutes(r *mux.Router, svc *ledger.Service) {
	banks := handlers.NewBankHandler(svc)
	transactions := handlers.NewTransactionHandler(svc)
	transfers := handlers.NewTransferHandler(svc)
	imports := handlers.NewImportHandler(svc)

	// Public routes (no auth required)
	r.HandleFunc("/health", handlers.HealthCheck).Methods("GET", "OPTIONS")
	r.HandleFunc("/register", handlers.Register).Methods("POST", "OPTIONS")
	r.HandleFunc("/login", handlers.Login).Methods("POST", "OPTIONS")
	r.HandleFunc("/logout", handlers.Logout).Methods("POST", "OPTIONS")

	// Create a subrouter for authenticated routes
	protectedRouter := r.PathPrefix("").Subrouter()
	protectedRouter.Use(middleware.AuthMiddleware)

	protectedRouter.HandleFunc("/me", handlers.Me).Methods("GET")

	// Banks
	protectedRouter.HandleFunc("/banks", banks.GetBanks).Methods("GET")
	protectedRouter.HandleFunc("/banks", banks.AddBank).Methods("POST")
	protectedRouter.HandleFunc("/banks/{id}", banks.UpdateBank).Methods("PUT")
	protectedRouter.HandleFunc("/banks/{id}", banks.DeleteBank).Methods("DELETE")

	// Chart-of-account categories
	protectedRouter.HandleFunc("/category", handlers.GetCategories).Methods("GET")
	protectedRouter.HandleFunc("/category", handlers.AddCategory).Methods("POST")
	protectedRouter.HandleFunc("/category/{id}", handlers.UpdateCategory).Methods("PUT")
	protectedRouter.HandleFunc("/category/{id}", handlers.DeleteCategory).Methods("DELETE")

	// Chart of accounts ("plans")
	protectedRouter.HandleFunc("/plans", handlers.GetPlans).Methods("GET")
	protectedRouter.HandleFunc("/plans", handlers.AddPlan).Methods("POST")
	protectedRouter.HandleFunc("/plans/{id}", handlers.UpdatePlan).Methods("PUT")
	protectedRouter.HandleFunc("/plans/{id}", handlers.DeletePlan).Methods("DELETE")

	// Transactions
	protectedRouter.HandleFunc("/transactions", transactions.GetTransactions).Methods("GET")
	protectedRouter.HandleFunc("/transactions", transactions.AddTransaction).Methods("POST")
	protectedRouter.HandleFunc("/transactions-dueDate", transactions.GetTransactionsByDueDate).Methods("GET")
	protectedRouter.HandleFunc("/transactions/{id}", transactions.UpdateTransaction).Methods("PUT")
	protectedRouter.HandleFunc("/transactions/{id}", transactions.DeleteTransaction).Methods("DELETE")

	// Transfers
	protectedRouter.HandleFunc("/transfers", transfers.GetTransfers).Methods("GET")
	protectedRouter.HandleFunc("/transfers", transfers.AddTransfer).Methods("POST")
	protectedRouter.HandleFunc("/transfers/{id}", transfers.UpdateTransfer).Methods("PUT")
	protectedRouter.HandleFunc("/transfers/{id}", transfers.DeleteTransfer).Methods("DELETE")

	// Bulk import
	protectedRouter.HandleFunc("/import", imports.ImportTransactions).Methods("POST")
}
