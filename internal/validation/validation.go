// Package validation provides request-level validation for the API handlers.
package validation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/hassanzn2023/autoblog-sub000/internal/domain"
)

const maxNameLength = 100

// ValidateURL checks that raw is an absolute http(s) URL with a host.
func ValidateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("url must not be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("url is not parseable: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("url must have a host")
	}
	return nil
}

// ValidateName checks a human-facing name (workspace, key label).
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("name must be at most %d characters", maxNameLength)
	}
	return nil
}

// ValidateProviderType checks a provider api_type value.
func ValidateProviderType(apiType string) error {
	if !domain.ValidProviderType(apiType) {
		return fmt.Errorf("apiType must be %q or %q", domain.ProviderOpenAI, domain.ProviderGoogleLens)
	}
	return nil
}

// ValidatePlanType checks a subscription plan value.
func ValidatePlanType(plan string) error {
	if !domain.ValidPlanType(plan) {
		return fmt.Errorf("planType must be one of free, basic, premium")
	}
	return nil
}

// ValidateGrant checks a credit grant request.
func ValidateGrant(req *domain.GrantCreditsRequest) ValidationErrors {
	var errs ValidationErrors
	if req.UserID == "" {
		errs.Add("userId", "", "userId is required")
	}
	if req.Amount <= 0 {
		errs.Add("amount", fmt.Sprintf("%d", req.Amount), "amount must be positive")
	}
	if req.TransactionType != domain.CreditInitial && req.TransactionType != domain.CreditPurchased {
		errs.Add("transactionType", req.TransactionType, "transactionType must be initial or purchased")
	}
	return errs
}
