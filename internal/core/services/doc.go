// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services depend only on the ports; optional collaborators such as the
// embedding and generation backends may be nil, in which case the
// services degrade instead of failing.
package services
