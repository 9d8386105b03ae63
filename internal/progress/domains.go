// internal/progress/domains.go
package progress

import "carecase-workers/internal/models"

var (
	pendingStep = StepDefinition{
		Title:   "Pending",
		Past:    "Your application was received and reviewed.",
		Current: "Your application has been submitted and is awaiting review.",
	}

	threeStepTable = Table{
		models.StatusPending:   0,
		models.StatusApproved:  1,
		models.StatusCompleted: 2,
	}
)

var cancerTreatment = &Domain{
	ID:       models.DomainCancerTreatment,
	Name:     "Cancer Treatment",
	Endpoint: "beneficiary/cancer-treatment/details",
	Base: Variant{
		Name: "standard",
		Steps: []StepDefinition{
			pendingStep,
			{
				Title:   "Interview Process",
				Past:    "Your interview was held on {{interview_date}}.",
				Current: "Your interview is scheduled on {{interview_date}}. Please bring a valid ID and your medical records.",
			},
			{
				Title:   "Case Summary Generation",
				Past:    "Your case summary and treatment plan were prepared.",
				Current: "Your case summary and treatment plan are ready. Upload the signed case summary to continue.",
				Action:  "upload-case-summary",
			},
			{
				Title:   "Approved",
				Past:    "Your treatment was approved for {{treatment_date}}.",
				Current: "Your treatment is approved and scheduled on {{treatment_date}}.",
			},
			{
				Title:   "Completed",
				Past:    "Your treatment was completed on {{date_completed}}.",
				Current: "Your treatment was completed on {{date_completed}}. Your case is now closed.",
			},
		},
		Table: Table{
			models.StatusPending:               0,
			models.StatusInterviewProcess:      1,
			models.StatusCaseSummaryGeneration: 2,
			models.StatusApproved:              3,
			models.StatusCompleted:             4,
		},
	},
}

var individualScreening = &Domain{
	ID:       models.DomainIndividualScreening,
	Name:     "Individual Screening",
	Endpoint: "beneficiary/individual-screening/details",
	Base: Variant{
		Name: "standard",
		Steps: []StepDefinition{
			pendingStep,
			{
				Title:   "Approved",
				Past:    "Your screening was approved for {{screening_date}}.",
				Current: "Your screening is approved and scheduled on {{screening_date}}. Upload your screening results once available.",
				Action:  "upload-result",
			},
			{
				Title:   "Completed",
				Past:    "Your screening was completed on {{date_completed}}.",
				Current: "Your screening was completed on {{date_completed}}. Thank you for taking care of your health.",
			},
		},
		Table: threeStepTable,
	},
}

var hormonalReplacement = &Domain{
	ID:       models.DomainHormonalReplacement,
	Name:     "Hormonal Replacement",
	Endpoint: "beneficiary/hormonal-replacement/details",
	Base: Variant{
		Name: "standard",
		Steps: []StepDefinition{
			pendingStep,
			{
				Title:   "Approved",
				Past:    "Your medication was released on {{released_date}}.",
				Current: "Your request is approved. Your medication will be released on {{released_date}}.",
			},
			{
				Title:   "Completed",
				Past:    "Your hormonal replacement request was completed on {{date_completed}}.",
				Current: "Your hormonal replacement request was completed on {{date_completed}}.",
			},
		},
		Table: threeStepTable,
	},
}

var preCancerousMeds = &Domain{
	ID:       models.DomainPreCancerousMeds,
	Name:     "Pre-Cancerous Meds",
	Endpoint: "beneficiary/precancerous-meds/details",
	Base: Variant{
		Name: "standard",
		Steps: []StepDefinition{
			pendingStep,
			{
				Title:   "Approved",
				Past:    "Your medicine was released on {{release_date}}.",
				Current: "Your request is approved. Claim your medicine on {{release_date}}.",
			},
			{
				Title:   "Completed",
				Past:    "Your request was completed on {{date_completed}}.",
				Current: "Your request was completed on {{date_completed}}.",
			},
		},
		Table: threeStepTable,
	},
}

var (
	postTreatmentBaseSteps = []StepDefinition{
		pendingStep,
		{
			Title:   "Approved",
			Past:    "Your laboratory test was done on {{lab_test_date}}.",
			Current: "Your laboratory request is approved for {{lab_test_date}}. Upload your lab results once available.",
			Action:  "upload-result",
		},
		{
			Title:   "Completed",
			Past:    "Your results were reviewed on {{date_completed}}.",
			Current: "Your results were reviewed on {{date_completed}}. No further action is needed.",
		},
	}

	postTreatmentClosedStep = StepDefinition{
		Title:   "Closed",
		Past:    "Your post-treatment case was closed.",
		Current: "Your post-treatment case was closed on {{date_closed}}.",
		Dynamic: true,
	}
)

var postTreatment = &Domain{
	ID:       models.DomainPostTreatment,
	Name:     "Post Treatment",
	Endpoint: "beneficiary/post-treatment/details",
	Base: Variant{
		Name:  "standard",
		Steps: postTreatmentBaseSteps,
		Table: threeStepTable,
	},
	Extensions: []Extension{
		{
			Variant: Variant{
				Name: "with-follow-up",
				Steps: append(append([]StepDefinition{}, postTreatmentBaseSteps...),
					StepDefinition{
						Title:   "Follow-up Required",
						Past:    "Your follow-up check-up was held on {{follow_up_date}}.",
						Current: "A follow-up check-up is required on {{follow_up_date}}. Upload your follow-up results once available.",
						Action:  "upload-result",
						Dynamic: true,
					},
					postTreatmentClosedStep,
				),
				Table: Table{
					models.StatusPending:          0,
					models.StatusApproved:         1,
					models.StatusCompleted:        2,
					models.StatusFollowUpRequired: 3,
					models.StatusClosed:           4,
				},
			},
			Applies: func(rec *models.ApplicationRecord) bool {
				return rec.Status == models.StatusFollowUpRequired ||
					(rec.Status == models.StatusClosed && rec.FollowUpRequiredPreviously)
			},
		},
		{
			Variant: Variant{
				Name:  "closed",
				Steps: append(append([]StepDefinition{}, postTreatmentBaseSteps...), postTreatmentClosedStep),
				Table: Table{
					models.StatusPending:   0,
					models.StatusApproved:  1,
					models.StatusCompleted: 2,
					models.StatusClosed:    3,
				},
			},
			Applies: func(rec *models.ApplicationRecord) bool {
				return rec.Status == models.StatusClosed
			},
		},
	},
}

var homeVisit = &Domain{
	ID:       models.DomainHomeVisit,
	Name:     "Home Visit",
	Endpoint: "partner/home-visit/details",
	Base: Variant{
		Name: "standard",
		Steps: []StepDefinition{
			{
				Title:   "Pending",
				Past:    "The home visit request was received.",
				Current: "The home visit request is awaiting scheduling.",
			},
			{
				Title:   "Processing",
				Past:    "The home visit was conducted on {{visit_date}}.",
				Current: "The home visit is scheduled on {{visit_date}}.",
			},
			{
				Title:   "Recommendation",
				Past:    "Recommendations were issued on {{recommendation_date}}.",
				Current: "The care team is preparing recommendations for this patient.",
			},
			{
				Title:   "Completed",
				Past:    "The home visit case was completed.",
				Current: "Case completed. No further action is needed for this home visit.",
			},
		},
		Table: Table{
			models.StatusPending:        0,
			models.StatusProcessing:     1,
			models.StatusRecommendation: 2,
			models.StatusCompleted:      3,
		},
	},
}

var registry = []*Domain{
	cancerTreatment,
	individualScreening,
	hormonalReplacement,
	preCancerousMeds,
	postTreatment,
	homeVisit,
}

// Domains returns every configured domain in display order.
func Domains() []*Domain {
	out := make([]*Domain, len(registry))
	copy(out, registry)
	return out
}

// Lookup finds a domain by id.
func Lookup(id models.DomainID) (*Domain, bool) {
	for _, d := range registry {
		if d.ID == id {
			return d, true
		}
	}
	return nil, false
}
