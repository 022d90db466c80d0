package auth

// RegistrationIntent is the branch a registration request takes. It is
// decided exactly once, here, from the overlapping account-type, role, and
// company fields clients send; nothing downstream re-infers it.
type RegistrationIntent string

const (
	// IntentTeamMember joins an existing organization, pending approval.
	IntentTeamMember RegistrationIntent = "team_member"
	// IntentContractorJoin requests membership in an existing contractor
	// company.
	IntentContractorJoin RegistrationIntent = "contractor_join"
	// IntentContractorNewCompany registers a new contractor company.
	IntentContractorNewCompany RegistrationIntent = "contractor_new_company"
	// IntentCompanyOwner registers a new organization.
	IntentCompanyOwner RegistrationIntent = "company_owner"
	// IntentStandalone creates a bare account that must verify its email
	// before anything else.
	IntentStandalone RegistrationIntent = "standalone"
)

const (
	accountTypeTeamMember             = "team_member"
	accountTypeContractorIndividual   = "contractor_individual"
	accountTypeContractorAccountOwner = "contractor_account_owner"
)

// Intent resolves the registration branch. Priority order, first match wins:
// explicit team-member flag, contractor joining an existing company,
// contractor creating a company, company owner, then the standalone default.
func (r *RegisterRequest) Intent() RegistrationIntent {
	switch {
	case r.AccountType == accountTypeTeamMember:
		return IntentTeamMember
	case r.CompanyExists && r.SelectedCompanyID != "" && r.AccountType == accountTypeContractorIndividual:
		return IntentContractorJoin
	case (r.AccountType == accountTypeContractorIndividual || r.AccountType == accountTypeContractorAccountOwner) && r.hasAddress():
		return IntentContractorNewCompany
	case r.CompanyName != "" && r.CompanyShortName != "" && r.BusinessNumber != "":
		return IntentCompanyOwner
	default:
		return IntentStandalone
	}
}

func (r *RegisterRequest) hasAddress() bool {
	return r.StreetAddress != "" && r.City != "" && r.Province != "" && r.PostalCode != ""
}

// IsContractorHint reports whether the legacy role/userType hint fields mark
// the request as contractor-side. Only the standalone branch consults this.
func (r *RegisterRequest) IsContractorHint() bool {
	return r.Role == accountTypeContractorIndividual || r.UserType == "contractor" ||
		r.AccountType == accountTypeContractorIndividual
}
