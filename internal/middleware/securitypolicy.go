package middleware

import "fmt"

const DefaultScriptPolicy = "script-src 'unsafe-inline';"

type SecurityPolicy struct {
	policy string
}

func NewSecurityPolicy(policy string) *SecurityPolicy {
	return &SecurityPolicy{policy: policy}
}

func (sp *SecurityPolicy) HandleResponse(headers HeaderSet) error {
	if sp.policy == "" {
		return fmt.Errorf("empty content security policy")
	}
	headers.Add("Content-Security-Policy: " + sp.policy)
	return nil
}
