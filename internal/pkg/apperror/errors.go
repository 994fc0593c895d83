package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden         ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest        ErrorCode = "BAD_REQUEST"
	ErrCodeConflict          ErrorCode = "CONFLICT"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation        ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError     ErrorCode = "DATABASE_ERROR"
	ErrCodeWrongStatus       ErrorCode = "WRONG_STATUS"
	ErrCodeInvalidFormat     ErrorCode = "INVALID_FORMAT"
	ErrCodeCurrencyMismatch  ErrorCode = "CURRENCY_MISMATCH"
	ErrCodeInsufficientFunds ErrorCode = "INSUFFICIENT_FUNDS"
	ErrCodeDuplicate         ErrorCode = "DUPLICATE"
	ErrCodeDeadline          ErrorCode = "DEADLINE"
	ErrCodeInvariant         ErrorCode = "INVARIANT_VIOLATION"
	ErrCodeUnavailable       ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrCodeRateLimited       ErrorCode = "RATE_LIMITED"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation, ErrCodeInvalidFormat, ErrCodeCurrencyMismatch:
		return http.StatusBadRequest
	case ErrCodeConflict, ErrCodeWrongStatus, ErrCodeDuplicate, ErrCodeDeadline:
		return http.StatusConflict
	case ErrCodeInsufficientFunds:
		return http.StatusUnprocessableEntity
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf возвращает код ошибки или INTERNAL_ERROR для неизвестных ошибок.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsForbidden(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeForbidden
}

func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeValidation
}

var (
	ErrUnauthorized       = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden          = New(ErrCodeForbidden, "недостаточно прав")
	ErrInvalidCredentials = New(ErrCodeUnauthorized, "неверные учетные данные")
	ErrPrincipalNotFound  = New(ErrCodeNotFound, "аккаунт не найден")
	ErrPrincipalExists    = New(ErrCodeDuplicate, "аккаунт уже зарегистрирован")
)

// Конфигурация и реестр аккаунтов.
var (
	ErrNotInitialized     = New(ErrCodeNotFound, "контракт не инициализирован")
	ErrAlreadyInitialized = New(ErrCodeDuplicate, "контракт уже инициализирован")
	ErrAccountMissing     = New(ErrCodeNotFound, "аккаунт не существует")
	ErrUnknownAction      = New(ErrCodeNotFound, "неизвестное действие")
	ErrInvalidParams      = New(ErrCodeValidation, "некорректные параметры действия")
)

// Ledger.
var (
	ErrInsufficientFunds = New(ErrCodeInsufficientFunds, "недостаточно доступных средств")
	ErrOverdrawn         = New(ErrCodeInsufficientFunds, "недостаточно средств на балансе")
	ErrNoBalance         = New(ErrCodeInsufficientFunds, "баланс отсутствует")
	ErrCurrencyMismatch  = New(ErrCodeCurrencyMismatch, "несовпадение валюты")
	ErrReservedUnderflow = New(ErrCodeInvariant, "зарезервированных средств меньше освобождаемой суммы")
	ErrAmountOverflow    = New(ErrCodeInvariant, "переполнение суммы")
)

// Форматы.
var (
	ErrInvalidContentLink = New(ErrCodeInvalidFormat, "некорректная ссылка на контент")
	ErrInvalidAsset       = New(ErrCodeInvalidFormat, "некорректная сумма")
	ErrInvalidCategory    = New(ErrCodeInvalidFormat, "категория иска не найдена")
	ErrInvalidRationale   = New(ErrCodeInvalidFormat, "обоснование должно содержать от 1 до 254 символов")
	ErrInvalidStatus      = New(ErrCodeInvalidFormat, "некорректный статус арбитра")
	ErrInvalidCaseStatus  = New(ErrCodeInvalidFormat, "некорректный статус дела")
	ErrInvalidConfig      = New(ErrCodeValidation, "некорректные параметры конфигурации")
)

// Дела и иски.
var (
	ErrCaseNotFound            = New(ErrCodeNotFound, "дело не найдено")
	ErrClaimNotFound           = New(ErrCodeNotFound, "иск не найден")
	ErrCaseWrongStatus         = New(ErrCodeWrongStatus, "статус дела не позволяет выполнить действие")
	ErrNotClaimant             = New(ErrCodeForbidden, "вы не являетесь истцом по делу")
	ErrNotRespondant           = New(ErrCodeForbidden, "вы не являетесь ответчиком по делу")
	ErrRespondantMustBeAccount = New(ErrCodeNotFound, "ответчик должен быть существующим аккаунтом")
	ErrTooManyClaims           = New(ErrCodeConflict, "достигнуто максимальное количество исков")
	ErrDuplicateLink           = New(ErrCodeDuplicate, "ссылка уже используется в другом иске")
	ErrClaimNotEditable        = New(ErrCodeWrongStatus, "иск нельзя изменить")
	ErrNoClaims                = New(ErrCodeWrongStatus, "в деле должен быть хотя бы один иск")
	ErrNoRespondant            = New(ErrCodeWrongStatus, "у дела нет ответчика")
	ErrNoResponseNeeded        = New(ErrCodeWrongStatus, "ответ не требуется")
	ErrWrongClaimStatus        = New(ErrCodeWrongStatus, "статус иска не позволяет выполнить действие")
	ErrNothingToReview         = New(ErrCodeValidation, "нужно запросить информацию хотя бы у одной стороны")
	ErrMinOneDay               = New(ErrCodeValidation, "срок должен быть не менее одного дня")
	ErrRespondantStillHasTime  = New(ErrCodeDeadline, "у ответчика ещё есть время на ответ")
	ErrClaimantStillHasTime    = New(ErrCodeDeadline, "у истца ещё есть время на ответ")
	ErrUnresolvedClaims        = New(ErrCodeWrongStatus, "в деле есть нерешённые иски")
	ErrNotAssignedArbitrator   = New(ErrCodeForbidden, "арбитр не назначен на это дело")
	ErrCannotRecuse            = New(ErrCodeWrongStatus, "нельзя взять самоотвод, если дело не начато или уже решено")
	ErrArbitratorIsCaseParty   = New(ErrCodeConflict, "арбитр не может быть истцом или ответчиком")
)

// Предложения.
var (
	ErrOfferNotFound  = New(ErrCodeNotFound, "предложение не найдено")
	ErrOffersClosed   = New(ErrCodeDeadline, "время подачи предложений истекло")
	ErrInvalidHours   = New(ErrCodeValidation, "минимальная оценка - 1 час")
	ErrDuplicateOffer = New(ErrCodeDuplicate, "арбитр уже сделал предложение по этому делу")
	ErrWrongCase      = New(ErrCodeConflict, "предложение не относится к этому делу")
	ErrNotOfferOwner  = New(ErrCodeForbidden, "предложение сделано другим арбитром")
	ErrNotPending     = New(ErrCodeWrongStatus, "предложение должно быть в статусе ожидания")
)

// Арбитры и номинанты.
var (
	ErrArbitratorNotFound = New(ErrCodeNotFound, "арбитр не найден")
	ErrNomineeNotFound    = New(ErrCodeNotFound, "номинант не найден")
	ErrAlreadyApplicant   = New(ErrCodeDuplicate, "номинант уже подал заявку")
	ErrStillSeated        = New(ErrCodeConflict, "номинант уже арбитр, срок полномочий не истёк")
	ErrIsCandidate        = New(ErrCodeConflict, "нельзя отозвать заявку кандидата текущих выборов")
	ErrAlreadyRemoved     = New(ErrCodeWrongStatus, "арбитр уже отстранён")
	ErrSeatExpired        = New(ErrCodeDeadline, "срок полномочий арбитра истёк")
	ErrTermExpired        = New(ErrCodeDeadline, "срок полномочий арбитра истёк")
	ErrRemoved            = New(ErrCodeWrongStatus, "арбитр отстранён")
	ErrNotAvailable       = New(ErrCodeWrongStatus, "арбитр не принимает новые дела")
)

// Выборы.
var (
	ErrElectionNotFound    = New(ErrCodeNotFound, "выборы не найдены")
	ErrElectionInProgress  = New(ErrCodeConflict, "выборы уже идут")
	ErrNoSeatsAvailable    = New(ErrCodeConflict, "свободных мест нет")
	ErrElectionWrongStatus = New(ErrCodeWrongStatus, "статус выборов не позволяет выполнить действие")
	ErrCandidatesClosed    = New(ErrCodeDeadline, "период добавления кандидатов завершён")
	ErrCandidatesOpen      = New(ErrCodeDeadline, "период добавления кандидатов ещё не завершён")
	ErrVotingOpen          = New(ErrCodeDeadline, "голосование ещё не завершено")
	ErrNotNominee          = New(ErrCodeNotFound, "номинант не зарегистрирован")
	ErrAlreadyCandidate    = New(ErrCodeDuplicate, "кандидат уже добавлен")
	ErrCandidateNotFound   = New(ErrCodeNotFound, "кандидат не найден в списке")
	ErrBallotNameTaken     = New(ErrCodeDuplicate, "имя бюллетеня уже используется")
	ErrInvalidBallotName   = New(ErrCodeInvalidFormat, "некорректное имя бюллетеня")
)
