package skuname

import "strings"

// staticMapping maps SKU part numbers to product display names, based on
// Microsoft's licensing service plan reference:
// https://learn.microsoft.com/en-us/entra/identity/users/licensing-service-plan-reference
//
// The database table sku_product_mappings takes precedence; this table is the
// code fallback so common tenants render readable names out of the box.
var staticMapping = map[string]string{
	// Microsoft 365 plans
	"ENTERPRISEPACK":           "Microsoft 365 E3",
	"ENTERPRISEPREMIUM":        "Microsoft 365 E5",
	"DEVELOPERPACK":            "Microsoft 365 Developer",
	"M365EDU_A3_FACULTY":       "Microsoft 365 A3 for Faculty",
	"M365EDU_A3_STUDENT":       "Microsoft 365 A3 for Students",
	"M365EDU_A5_FACULTY":       "Microsoft 365 A5 for Faculty",
	"M365EDU_A5_STUDENT":       "Microsoft 365 A5 for Students",
	"M365_BUSINESS_PREMIUM":    "Microsoft 365 Business Premium",
	"M365_BUSINESS_STANDARD":   "Microsoft 365 Business Standard",
	"M365_BUSINESS_BASIC":      "Microsoft 365 Business Basic",
	"O365_BUSINESS_ESSENTIALS": "Microsoft 365 Business Essentials",
	"O365_BUSINESS_PREMIUM":    "Microsoft 365 Business Premium",
	"O365_BUSINESS":            "Microsoft 365 Business",
	"SPB":                      "Microsoft 365 Business Premium",
	"SPE_E3":                   "Microsoft 365 E3",
	"SPE_E5":                   "Microsoft 365 E5",
	"SPE_F1":                   "Microsoft 365 F1",
	"SPE_F3":                   "Microsoft 365 F3",

	// Office 365 plans
	"O365_E1":            "Office 365 E1",
	"O365_E3":            "Office 365 E3",
	"O365_E5":            "Office 365 E5",
	"O365_F1":            "Office 365 F1",
	"O365_F3":            "Office 365 F3",
	"STANDARDPACK":       "Office 365 E1",
	"STANDARDWOFFPACK":   "Office 365 E2",
	"ENTERPRISEWITHSCAL": "Office 365 Enterprise E4",

	// Exchange Online
	"EXCHANGESTANDARD":           "Exchange Online (Plan 1)",
	"EXCHANGEENTERPRISE":         "Exchange Online (Plan 2)",
	"EXCHANGEARCHIVE_ADDON":      "Exchange Online Archiving",
	"EXCHANGEONLINE":             "Exchange Online",
	"EXCHANGEENTERPRISE_FACULTY": "Exchange Online (Plan 2) for Faculty",
	"EXCHANGEENTERPRISE_STUDENT": "Exchange Online (Plan 2) for Students",

	// SharePoint Online
	"SHAREPOINTSTANDARD":   "SharePoint Online (Plan 1)",
	"SHAREPOINTENTERPRISE": "SharePoint Online (Plan 2)",
	"SHAREPOINTSTORAGE":    "SharePoint Online Storage",
	"SHAREPOINTWAC":        "Office Online",

	// Teams
	"TEAMS1":                 "Microsoft Teams (Free)",
	"TEAMS_COMMERCIAL_TRIAL": "Microsoft Teams (Commercial Trial)",
	"TEAMS_EXPLORATORY":      "Microsoft Teams Exploratory",
	"TEAMS_ESSENTIALS":       "Microsoft Teams Essentials",
	"MCOEV":                  "Microsoft 365 Phone System",
	"MCOSTANDARD":            "Microsoft Teams (Plan 1)",
	"MCOPSTN1":               "Microsoft 365 Domestic Calling Plan",
	"MCOPSTN2":               "Microsoft 365 International Calling Plan",
	"MCOPSTN5":               "Microsoft 365 Domestic and International Calling Plan",
	"MCOPSTN6":               "Microsoft 365 Domestic Calling Plan (120 Minutes)",
	"MCOPSTN7":               "Microsoft 365 Domestic Calling Plan (240 Minutes)",

	// Entra ID
	"AAD_BASIC":      "Azure Active Directory Basic",
	"AAD_PREMIUM":    "Azure Active Directory Premium P1",
	"AAD_PREMIUM_P2": "Azure Active Directory Premium P2",
	"AAD_PREMIUM_V2": "Azure Active Directory Premium P2",

	// Dynamics 365
	"DYN365_ENTERPRISE_P1_IW":                              "Dynamics 365 Customer Engagement Plan",
	"DYN365_ENTERPRISE_PLAN1":                              "Dynamics 365 Sales Enterprise",
	"DYN365_ENTERPRISE_SALES_CUSTOMERSERVICE":              "Dynamics 365 Sales and Customer Service Enterprise",
	"DYN365_ENTERPRISE_SALES":                              "Dynamics 365 Sales Enterprise",
	"DYN365_ENTERPRISE_CUSTOMER_SERVICE":                   "Dynamics 365 Customer Service Enterprise",
	"DYN365_ENTERPRISE_TEAM_MEMBERS":                       "Dynamics 365 Team Members",
	"DYN365_ENTERPRISE_TALENT_ATTRACT":                     "Dynamics 365 Talent: Attract",
	"DYN365_ENTERPRISE_TALENT_ONBOARD":                     "Dynamics 365 Talent: Onboard",
	"DYN365_ENTERPRISE_TALENT":                             "Dynamics 365 Talent",
	"DYN365_FINANCIALS_BUSINESS_SKU":                       "Dynamics 365 Business Central",
	"DYN365_FINANCIALS_TEAM_MEMBERS":                       "Dynamics 365 Business Central Team Members",
	"DYN365_SALES_INSIGHTS":                                "Dynamics 365 Sales Insights",
	"DYN365_AI_SERVICE_INSIGHTS":                           "Dynamics 365 AI for Customer Service",
	"Dynamics_365_Customer_Service_Enterprise_viral_trial": "Dynamics 365 Customer Service Enterprise (Trial)",
	"Dynamics_365_Sales_Premium_Viral_Trial":               "Dynamics 365 Sales Premium (Trial)",

	// Power Platform
	"POWER_BI_PRO":                  "Power BI Pro",
	"POWER_BI_PREMIUM_PER_USER":     "Power BI Premium Per User",
	"POWER_BI_PREMIUM_PER_CAPACITY": "Power BI Premium Per Capacity",
	"POWER_BI_STANDARD":             "Power BI Standard",
	"POWERAPPS_PER_USER":            "Power Apps Per User",
	"POWERAPPS_PER_APP":             "Power Apps Per App",
	"POWERAUTOMATE_PER_USER":        "Power Automate Per User",
	"POWERAUTOMATE_PER_FLOW":        "Power Automate Per Flow",
	"POWER_VIRTUAL_AGENTS":          "Power Virtual Agents",
	"FLOW_FREE":                     "Power Automate Free",
	"POWERAPPS_VIRAL":               "Power Apps (Trial)",

	// Windows 365
	"WINDOWS_365_BUSINESS":   "Windows 365 Business",
	"WINDOWS_365_ENTERPRISE": "Windows 365 Enterprise",
	"CPC_E_8C_32GB_512GB":    "Windows 365 Enterprise 8vCPU/32GB/512GB",

	// Intune
	"INTUNE_A":     "Microsoft Intune",
	"INTUNE_SMBIZ": "Microsoft Intune for Small Business",

	// Security and compliance
	"IDENTITY_THREAT_PROTECTION":            "Microsoft Defender for Identity",
	"IDENTITY_THREAT_PROTECTION_FOR_EMS_E5": "Microsoft Defender for Identity for EMS E5",
	"M365_SECURITY_COMPLIANCE":              "Microsoft 365 Security & Compliance",
	"M365_ADVANCED_AUDITING":                "Microsoft 365 Advanced Auditing",
	"M365_ADVANCED_COMPLIANCE":              "Microsoft 365 Advanced Compliance",
	"M365_ADVANCED_THREAT_PROTECTION":       "Microsoft 365 Advanced Threat Protection",
	"M365_ADVANCED_SECURITY":                "Microsoft 365 Advanced Security",
	"M365_ADVANCED_INSIGHTS":                "Microsoft 365 Advanced Analytics",
	"DEFENDER_ENDPOINT_P1":                  "Microsoft Defender for Endpoint P1",
	"DEFENDER_ENDPOINT_P2":                  "Microsoft Defender for Endpoint P2",
	"DEFENDER_OFFICE_365_P1":                "Microsoft Defender for Office 365 (Plan 1)",
	"DEFENDER_OFFICE_365_P2":                "Microsoft Defender for Office 365 (Plan 2)",
	"DEFENDER_IDENTITY":                     "Microsoft Defender for Identity",
	"DEFENDER_CLOUD_APPS":                   "Microsoft Defender for Cloud Apps",
	"INFORMATION_PROTECTION_COMPLIANCE":     "Microsoft Information Protection and Compliance",
	"MIP_S_CLP1":                            "Microsoft Information Protection for Office 365 - Standard",
	"MIP_S_CLP2":                            "Microsoft Information Protection for Office 365 - Premium",
	"COMPLIANCE_MANAGER":                    "Microsoft Compliance Manager",
	"ADALLOM_S_STANDALONE":                  "Microsoft Cloud App Security",

	// Visio
	"VISIOONLINE_PLAN1": "Visio Online Plan 1",
	"VISIOONLINE_PLAN2": "Visio Online Plan 2",
	"VISIOCLIENT":       "Visio Professional",
	"VISIO_PLAN1":       "Visio Plan 1",
	"VISIO_PLAN2":       "Visio Plan 2",

	// Project
	"PROJECTONLINE_PLAN_1":        "Project Online Essentials",
	"PROJECTONLINE_PLAN_2":        "Project Online Professional",
	"PROJECTONLINE_PLAN_3":        "Project Online Premium",
	"PROJECT_CLIENT_SUBSCRIPTION": "Project Professional",
	"PROJECT_P1":                  "Project Plan 1",
	"PROJECT_PLAN1":               "Project Plan 1",
	"PROJECT_PLAN3":               "Project Plan 3",
	"PROJECT_PLAN3_DEPT":          "Project Plan 3 for Department",
	"PROJECT_PLAN5":               "Project Plan 5",

	// Yammer and Stream
	"YAMMER_ENTERPRISE": "Yammer Enterprise",
	"YAMMER_MIDSIZE":    "Yammer",
	"STREAM":            "Microsoft Stream",
	"STREAM_P2":         "Microsoft Stream (Plan 2)",

	// Viva
	"VIVA_LEARNING_SEEDED":   "Viva Learning",
	"VIVA_LEARNING":          "Viva Learning",
	"VIVA_INSIGHTS":          "Viva Insights",
	"VIVA_TOPICS":            "Viva Topics",
	"VIVA_CONNECT":           "Viva Connections",
	"VIVA_ENGAGE_CORE":       "Viva Engage Core",
	"VIVA_ENGAGE_ENTERPRISE": "Viva Engage Enterprise",

	// Enterprise Mobility + Security
	"EMS":                    "Enterprise Mobility + Security E3",
	"EMSPREMIUM":             "Enterprise Mobility + Security E5",
	"RIGHTSMANAGEMENT":       "Azure Rights Management",
	"RIGHTSMANAGEMENT_ADHOC": "Azure Rights Management Ad-hoc",

	// Education
	"STANDARDWOFFPACK_IW_FACULTY": "Office 365 Education for Faculty",
	"STANDARDWOFFPACK_IW_STUDENT": "Office 365 Education for Students",
	"STANDARDWOFFPACK_FACULTY":    "Office 365 Education Plus for Faculty",
	"STANDARDWOFFPACK_STUDENT":    "Office 365 Education Plus for Students",
	"STANDARDPACK_FACULTY":        "Office 365 Education E1 for Faculty",
	"STANDARDPACK_STUDENT":        "Office 365 Education E1 for Students",
	"ENTERPRISEPACK_FACULTY":      "Office 365 Education E3 for Faculty",
	"ENTERPRISEPACK_STUDENT":      "Office 365 Education E3 for Students",
	"ENTERPRISEPREMIUM_FACULTY":   "Office 365 Education E5 for Faculty",
	"ENTERPRISEPREMIUM_STUDENT":   "Office 365 Education E5 for Students",

	// Government
	"ENTERPRISEPACK_GOV":    "Microsoft 365 E3 for Government",
	"ENTERPRISEPREMIUM_GOV": "Microsoft 365 E5 for Government",
	"STANDARDPACK_GOV":      "Office 365 E1 for Government",
	"STANDARDWOFFPACK_GOV":  "Office 365 E2 for Government",

	// Nonprofit
	"STANDARDPACK_NOPSTNCONF":      "Office 365 E1 (Nonprofit)",
	"STANDARDWOFFPACK_NOPSTNCONF":  "Office 365 E2 (Nonprofit)",
	"ENTERPRISEPACK_NOPSTNCONF":    "Office 365 E3 (Nonprofit)",
	"ENTERPRISEPREMIUM_NOPSTNCONF": "Office 365 E5 (Nonprofit)",

	// Miscellaneous
	"CCIBOTS_PRIVPREV_VIRAL":                    "Microsoft Copilot (Trial)",
	"Microsoft_365_Business_Premium_(no Teams)": "Microsoft 365 Business Premium (without Teams)",
}

// normalizedIndex mirrors staticMapping keyed by the upper-cased SKU with
// underscores and hyphens stripped, so "SPE-E3" and "spe_e3" both resolve.
var normalizedIndex = func() map[string]string {
	index := make(map[string]string, len(staticMapping))
	for key, name := range staticMapping {
		index[normalizeSku(key)] = name
	}

	return index
}()

func normalizeSku(sku string) string {
	sku = strings.ToUpper(sku)
	sku = strings.ReplaceAll(sku, "_", "")
	sku = strings.ReplaceAll(sku, "-", "")

	return sku
}

// StaticMappings returns a copy of the built-in SKU mapping table.
func StaticMappings() map[string]string {
	mappings := make(map[string]string, len(staticMapping))
	for key, name := range staticMapping {
		mappings[key] = name
	}

	return mappings
}

// Known reports whether the built-in table has an entry for the SKU.
func Known(skuPartNumber string) bool {
	if skuPartNumber == "" {
		return false
	}

	if _, ok := staticMapping[skuPartNumber]; ok {
		return true
	}

	_, ok := staticMapping[strings.ToUpper(skuPartNumber)]

	return ok
}
