package usecase

// Selectors of the job site. They are the only markup-specific strings of
// the package.
const (
	selResultCount      = "small.jobs-search-results-list__text"
	selResultList       = ".jobs-search-results-list > ul.scaffold-layout__list-container"
	selResultItemNth    = ".jobs-search-results-list > ul.scaffold-layout__list-container > li:nth-child(%d)"
	selAppliedIndicator = "li-icon.artdeco-inline-feedback__icon"
	selJobTitle         = ".jobs-unified-top-card span.job-details-jobs-unified-top-card__job-title-link"
	selJobDescription   = ".jobs-details__main-content .jobs-unified-top-card .job-details-jobs-unified-top-card__primary-description-without-tagline"

	selApplyButton   = "div.jobs-details__main-content button.jobs-apply-button"
	selSafetyFooter  = "div.job-details-pre-apply-safety-tips-modal__footer"
	selSafetyConfirm = "button.jobs-apply-button"
	selProgress      = ".jobs-easy-apply-content progress.artdeco-completeness-meter-linear__progress-element"
	selContinue      = ".jobs-easy-apply-content footer button[aria-label='Continue to next step']"
	selReview        = ".jobs-easy-apply-content footer button[aria-label='Review your application']"
	selSubmit        = "button.jobs-apply-form__submit-button"
	selSections      = ".jobs-easy-apply-content div.pb4"
	selDismiss       = ".artdeco-modal__dismiss"
	selDiscard       = ".artdeco-modal__confirm-dialog-btn:nth-child(1)"

	selGrouping       = "div.jobs-easy-apply-form-section__grouping"
	selRadioLabel     = "div.jobs-easy-apply-form-element legend span[aria-hidden='true']"
	selRadioInputs    = ".fb-text-selectable__option input"
	selFormElement    = "div.jobs-easy-apply-form-element"
	selSelect         = "select"
	selSelectLabel    = "label span:not(.visually-hidden)"
	selOption         = "option"
	selLabel          = "label"
	selLabelMarker    = "span[aria-hidden='true']"
	selTextInput      = "input:not([type='file']):not([type='radio']):not([type='checkbox']):not([type='hidden'])"
	selTextArea       = "textarea"
	xpathGroupTitle   = "preceding::span[contains(@class, 'jobs-easy-apply-form-section__group-title')][1]"
	selFileInput      = "input[type='file']"
	selUploadLabel    = "span[role='button']"
	selResumeChecked  = "input[type='radio']:checked"
	selUploadedResume = "input[type='radio'] + label"

	selLoginUser     = "[name='session_key']"
	selLoginPassword = "[name='session_password']"
	selLoginPin      = "[name='pin']"
)
