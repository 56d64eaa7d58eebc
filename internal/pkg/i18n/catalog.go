package i18n

// Message keys
const (
	KeySubmissionSuccess = "submission.success"
	KeySubmissionPartial = "submission.partial"
	KeySubmissionFailed  = "submission.failed"

	KeyErrorNotFound           = "error.not_found"
	KeyErrorConflict           = "error.conflict"
	KeyErrorUnauthorized       = "error.unauthorized"
	KeyErrorInvalidCredentials = "error.invalid_credentials"
	KeyErrorTokenExpired       = "error.token_expired"
	KeyErrorForbidden          = "error.forbidden"
	KeyErrorValidation         = "error.validation"
	KeyErrorBadRequest         = "error.bad_request"
	KeyErrorTooManyRequests    = "error.too_many_requests"
	KeyErrorRemoteRejected     = "error.remote_rejected"
	KeyErrorInternal           = "error.internal"
	KeyErrorEmailExists        = "error.email_exists"
	KeyErrorAccountDisabled    = "error.account_disabled"
	KeyErrorUnsupportedFile    = "error.unsupported_file"

	KeyWizardPhotoRequired    = "wizard.photo_required"
	KeyWizardPassportRequired = "wizard.passport_required"
	KeyWizardStepIncomplete   = "wizard.step_incomplete"
	KeyWizardStepLocked       = "wizard.step_locked"
	KeyWizardNotAtReview      = "wizard.not_at_review"
	KeyWizardTermsRequired    = "wizard.terms_required"

	KeyNotifyReceivedTitle = "notification.received.title"
	KeyNotifyReceivedBody  = "notification.received.body"
	KeyNotifyStatusTitle   = "notification.status.title"
	KeyNotifyStatusBody    = "notification.status.body"
	KeyNotifyDocumentTitle = "notification.document.title"
	KeyNotifyDocumentBody  = "notification.document.body"
	KeyNotifyMessageTitle  = "notification.message.title"
	KeyNotifyMessageBody   = "notification.message.body"

	KeyAutoReply = "message.auto_reply"

	KeyContactReceived = "contact.received"

	KeyEmailConfirmationSubject = "email.confirmation.subject"
	KeyEmailConfirmationBody    = "email.confirmation.body"

	KeyDeleted = "common.deleted"
	KeyUpdated = "common.updated"
)

var catalog = map[Lang]map[string]string{
	Arabic: {
		KeySubmissionSuccess: "تم تقديم طلبك بنجاح. رقم الطلب: %s",
		KeySubmissionPartial: "تم حفظ طلبك محلياً برقم %s وسيتم إرساله لاحقاً",
		KeySubmissionFailed:  "تعذر تقديم الطلب، يرجى المحاولة مرة أخرى",

		KeyErrorNotFound:           "العنصر المطلوب غير موجود",
		KeyErrorConflict:           "يتعارض الطلب مع الحالة الحالية",
		KeyErrorUnauthorized:       "يجب تسجيل الدخول أولاً",
		KeyErrorInvalidCredentials: "البريد الإلكتروني أو كلمة المرور غير صحيحة",
		KeyErrorTokenExpired:       "انتهت صلاحية الجلسة، يرجى تسجيل الدخول مجدداً",
		KeyErrorForbidden:          "ليس لديك صلاحية لتنفيذ هذا الإجراء",
		KeyErrorValidation:         "يرجى تصحيح الحقول المحددة",
		KeyErrorBadRequest:         "طلب غير صالح",
		KeyErrorTooManyRequests:    "عدد كبير من الطلبات، يرجى المحاولة لاحقاً",
		KeyErrorRemoteRejected:     "رفض نظام القبول الطلب: %s",
		KeyErrorInternal:           "حدث خطأ غير متوقع",
		KeyErrorEmailExists:        "البريد الإلكتروني مستخدم بالفعل",
		KeyErrorAccountDisabled:    "الحساب معطل",
		KeyErrorUnsupportedFile:    "نوع الملف أو حجمه غير مدعوم",

		KeyWizardPhotoRequired:    "يرجى رفع صورة شخصية قبل المتابعة",
		KeyWizardPassportRequired: "يرجى رفع صورة جواز السفر قبل المتابعة",
		KeyWizardStepIncomplete:   "يرجى إكمال الحقول المطلوبة في هذه الخطوة",
		KeyWizardStepLocked:       "لا يمكن الانتقال إلى هذه الخطوة بعد",
		KeyWizardNotAtReview:      "يمكن تقديم الطلب من خطوة المراجعة فقط",
		KeyWizardTermsRequired:    "يجب الموافقة على الشروط والأحكام",

		KeyNotifyReceivedTitle: "تم استلام طلبك",
		KeyNotifyReceivedBody:  "استلمنا طلبك رقم %s وسنقوم بمراجعته قريباً",
		KeyNotifyStatusTitle:   "تحديث حالة الطلب",
		KeyNotifyStatusBody:    "تم تغيير حالة طلبك %s إلى %s",
		KeyNotifyDocumentTitle: "تحديث المستندات",
		KeyNotifyDocumentBody:  "تم تحديث حالة المستند %s في طلبك %s إلى %s",
		KeyNotifyMessageTitle:  "رسالة جديدة",
		KeyNotifyMessageBody:   "لديك رسالة جديدة من فريق القبول",

		KeyAutoReply: "شكراً لتواصلك معنا. سيقوم أحد مستشاري القبول بالرد عليك في أقرب وقت.",

		KeyContactReceived: "شكراً لتواصلك معنا، سنرد عليك قريباً",

		KeyEmailConfirmationSubject: "تأكيد استلام الطلب %s",
		KeyEmailConfirmationBody:    "مرحباً %s،\n\nتم استلام طلبك رقم %s بنجاح. سنبلغك بأي تحديث على حالة الطلب.\n\nفريق القبول",

		KeyDeleted: "تم الحذف بنجاح",
		KeyUpdated: "تم التحديث بنجاح",
	},
	English: {
		KeySubmissionSuccess: "Your application was submitted successfully. Application number: %s",
		KeySubmissionPartial: "Your application %s was saved and will be synchronized later",
		KeySubmissionFailed:  "The application could not be submitted, please try again",

		KeyErrorNotFound:           "The requested resource was not found",
		KeyErrorConflict:           "The request conflicts with the current state",
		KeyErrorUnauthorized:       "Authentication is required",
		KeyErrorInvalidCredentials: "Invalid email or password",
		KeyErrorTokenExpired:       "Your session has expired, please sign in again",
		KeyErrorForbidden:          "You are not allowed to perform this action",
		KeyErrorValidation:         "Please correct the highlighted fields",
		KeyErrorBadRequest:         "Invalid request",
		KeyErrorTooManyRequests:    "Too many requests, please try again later",
		KeyErrorRemoteRejected:     "The admissions service rejected the application: %s",
		KeyErrorInternal:           "An unexpected error occurred",
		KeyErrorEmailExists:        "Email is already registered",
		KeyErrorAccountDisabled:    "Account is disabled",
		KeyErrorUnsupportedFile:    "Unsupported file type or size",

		KeyWizardPhotoRequired:    "Please upload a personal photo before continuing",
		KeyWizardPassportRequired: "Please upload your passport before continuing",
		KeyWizardStepIncomplete:   "Please complete the required fields of this step",
		KeyWizardStepLocked:       "This step is not available yet",
		KeyWizardNotAtReview:      "Applications can only be submitted from the review step",
		KeyWizardTermsRequired:    "You must accept the terms and conditions",

		KeyNotifyReceivedTitle: "Application received",
		KeyNotifyReceivedBody:  "We received your application %s and will review it shortly",
		KeyNotifyStatusTitle:   "Application status updated",
		KeyNotifyStatusBody:    "The status of your application %s changed to %s",
		KeyNotifyDocumentTitle: "Documents updated",
		KeyNotifyDocumentBody:  "Document %s of application %s is now %s",
		KeyNotifyMessageTitle:  "New message",
		KeyNotifyMessageBody:   "You have a new message from the admissions team",

		KeyAutoReply: "Thank you for reaching out. An admissions advisor will get back to you shortly.",

		KeyContactReceived: "Thank you for contacting us, we will get back to you soon",

		KeyEmailConfirmationSubject: "Application %s received",
		KeyEmailConfirmationBody:    "Hello %s,\n\nYour application %s has been received. We will let you know about any status change.\n\nAdmissions team",

		KeyDeleted: "Deleted successfully",
		KeyUpdated: "Updated successfully",
	},
	Turkish: {
		KeySubmissionSuccess: "Başvurunuz başarıyla gönderildi. Başvuru numarası: %s",
		KeySubmissionPartial: "%s numaralı başvurunuz kaydedildi ve daha sonra iletilecek",
		KeySubmissionFailed:  "Başvuru gönderilemedi, lütfen tekrar deneyin",

		KeyErrorNotFound:           "İstenen kayıt bulunamadı",
		KeyErrorConflict:           "İstek mevcut durumla çakışıyor",
		KeyErrorUnauthorized:       "Giriş yapmanız gerekiyor",
		KeyErrorInvalidCredentials: "E-posta veya şifre hatalı",
		KeyErrorTokenExpired:       "Oturumunuzun süresi doldu, lütfen tekrar giriş yapın",
		KeyErrorForbidden:          "Bu işlem için yetkiniz yok",
		KeyErrorValidation:         "Lütfen işaretli alanları düzeltin",
		KeyErrorBadRequest:         "Geçersiz istek",
		KeyErrorTooManyRequests:    "Çok fazla istek, lütfen daha sonra tekrar deneyin",
		KeyErrorRemoteRejected:     "Kabul sistemi başvuruyu reddetti: %s",
		KeyErrorInternal:           "Beklenmeyen bir hata oluştu",
		KeyErrorEmailExists:        "E-posta adresi zaten kayıtlı",
		KeyErrorAccountDisabled:    "Hesap devre dışı",
		KeyErrorUnsupportedFile:    "Desteklenmeyen dosya türü veya boyutu",

		KeyWizardPhotoRequired:    "Devam etmeden önce lütfen bir fotoğraf yükleyin",
		KeyWizardPassportRequired: "Devam etmeden önce lütfen pasaportunuzu yükleyin",
		KeyWizardStepIncomplete:   "Lütfen bu adımdaki zorunlu alanları doldurun",
		KeyWizardStepLocked:       "Bu adıma henüz geçilemez",
		KeyWizardNotAtReview:      "Başvuru yalnızca inceleme adımından gönderilebilir",
		KeyWizardTermsRequired:    "Şartları ve koşulları kabul etmelisiniz",

		KeyNotifyReceivedTitle: "Başvurunuz alındı",
		KeyNotifyReceivedBody:  "%s numaralı başvurunuzu aldık ve kısa süre içinde inceleyeceğiz",
		KeyNotifyStatusTitle:   "Başvuru durumu güncellendi",
		KeyNotifyStatusBody:    "%s numaralı başvurunuzun durumu %s olarak değişti",
		KeyNotifyDocumentTitle: "Belgeler güncellendi",
		KeyNotifyDocumentBody:  "%s belgesi (%s başvurusu) artık %s durumunda",
		KeyNotifyMessageTitle:  "Yeni mesaj",
		KeyNotifyMessageBody:   "Kabul ekibinden yeni bir mesajınız var",

		KeyAutoReply: "Bizimle iletişime geçtiğiniz için teşekkürler. Bir kabul danışmanı en kısa sürede size dönüş yapacak.",

		KeyContactReceived: "Bizimle iletişime geçtiğiniz için teşekkürler, en kısa sürede dönüş yapacağız",

		KeyEmailConfirmationSubject: "%s numaralı başvuru alındı",
		KeyEmailConfirmationBody:    "Merhaba %s,\n\n%s numaralı başvurunuz alındı. Durum değişikliklerinde sizi bilgilendireceğiz.\n\nKabul ekibi",

		KeyDeleted: "Başarıyla silindi",
		KeyUpdated: "Başarıyla güncellendi",
	},
}
