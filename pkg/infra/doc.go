// Package infra detects cloud infrastructure declared in a repository.
//
// Sources scanned:
//
//   - Python: assignments calling a provider constructor with a literal
//     name, e.g. account = azure.storage.Account("logs", sku="LRS")
//   - TypeScript: new azure.storage.Account("logs", { sku: "LRS" })
//   - Shell scripts and azure/cli workflow steps: az ... create --name X
//   - Terraform: resource blocks, parsed with hashicorp/hcl
//   - GitHub Actions: workflow name, triggers and job ids
//
// Resource detection in Python and TypeScript is pattern based; only the
// providers in [ProviderKeywords] are considered.
//
// Resources whose type mentions Cosmos DB or Blob Storage, and SDK
// references in .csproj, package.json and Python requirement files, are
// grouped into per-service [Interaction] lists.
package infra
