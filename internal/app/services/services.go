// Package services holds the business logic of the admissions portal.
//
// Services defined in this package:
//   - AuthService: registration, login and profile of portal users
//   - WizardService: the five step application wizard and its uploads
//   - SubmissionService: turns completed forms into stored application records
//   - ApplicationService: student and back-office access to applications
//   - NotificationService: the notification panel and localized system notices
//   - MessageService: student and admissions team conversations, realtime delivery
//   - CatalogService: universities and programs
//   - AgentService, StudentService, AnalyticsService: back-office management
//   - ContactService, DocumentService: public contact form and standalone uploads
package services
