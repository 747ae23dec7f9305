package email

const (
	subjectAdminAlertFmt      = "New directory application: %s"
	subjectConfirmation       = "We received your directory application"
	subjectNewsletterWelcome  = "Welcome to the SmartDivorce newsletter"
	subjectSponsorshipReceipt = "Your sponsorship is active"
	subjectOutreachDigest     = "Weekly outreach targets"
)
