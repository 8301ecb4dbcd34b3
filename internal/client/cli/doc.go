// Package cli provides the interactive CoinKeeper command-line client.
//
// It wires configuration, the local sqlite cache, API services, the app-lock
// controller, and an interactive REPL that supports online/offline operation.
// Typical flow: restore or prompt for credentials, start a background
// connectivity watcher, and execute user commands.
//
// Key features:
//   - Register / Login / Logout with session restore between runs
//   - Add records: expenses, budgets, loans, investments
//   - List / Delete records
//   - Summary screens: spending by category, budget usage, loan balances,
//     investment performance
//   - App lock: lock/unlock commands backed by a passphrase prompt
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
