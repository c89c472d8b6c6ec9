package v1

import "github.com/shenikar/flood_watch/internal/models"

// DTOToIncidentModel преобразует DTO создания/обновления в доменную модель
func DTOToIncidentModel(dto IncidentRequest) *models.Incident {
	incident := &models.Incident{
		Address:                    dto.Address,
		AffectedRadiusKM:           dto.AffectedRadiusKM,
		Severity:                   models.SeverityLevel(dto.Severity),
		Status:                     models.IncidentStatus(dto.Status),
		AffectedPopulationEstimate: dto.AffectedPopulationEstimate,
	}
	if dto.Latitude != nil && dto.Longitude != nil {
		incident.Latitude = *dto.Latitude
		incident.Longitude = *dto.Longitude
	}
	return incident
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(incident *models.Incident) IncidentResponse {
	return IncidentResponse{
		ID:                         incident.ID,
		Latitude:                   incident.Latitude,
		Longitude:                  incident.Longitude,
		Address:                    incident.Address,
		AffectedRadiusKM:           incident.AffectedRadiusKM,
		Severity:                   string(incident.Severity),
		Status:                     string(incident.Status),
		ReportCount:                incident.ReportCount,
		AffectedPopulationEstimate: incident.AffectedPopulationEstimate,
		CreatedAt:                  incident.CreatedAt,
		UpdatedAt:                  incident.UpdatedAt,
		ResolvedAt:                 incident.ResolvedAt,
	}
}

func ModelsToIncidentResponses(incidents []*models.Incident) []IncidentResponse {
	responses := make([]IncidentResponse, 0, len(incidents))
	for _, incident := range incidents {
		responses = append(responses, ModelToIncidentResponse(incident))
	}
	return responses
}

// DTOToReportModel собирает отчет из запроса, пустые списки медиа не превращаются в NULL
func DTOToReportModel(dto CreateReportRequest) *models.Report {
	report := &models.Report{
		UserID:       dto.UserID,
		Address:      dto.Address,
		Severity:     models.SeverityLevel(dto.Severity),
		Description:  dto.Description,
		WaterDepthCM: dto.WaterDepthCM,
		ImageURLs:    dto.ImageURLs,
		VideoURLs:    dto.VideoURLs,
	}
	if dto.Latitude != nil && dto.Longitude != nil {
		report.Latitude = *dto.Latitude
		report.Longitude = *dto.Longitude
	}
	if report.ImageURLs == nil {
		report.ImageURLs = []string{}
	}
	if report.VideoURLs == nil {
		report.VideoURLs = []string{}
	}
	return report
}

func DTOToReportUpdate(dto UpdateReportRequest) models.ReportUpdate {
	update := models.ReportUpdate{
		Description:  dto.Description,
		WaterDepthCM: dto.WaterDepthCM,
	}
	if dto.Severity != nil {
		severity := models.SeverityLevel(*dto.Severity)
		update.Severity = &severity
	}
	if dto.VerificationStatus != nil {
		status := models.VerificationStatus(*dto.VerificationStatus)
		update.VerificationStatus = &status
	}
	return update
}

func ModelToReportResponse(report *models.Report) ReportResponse {
	return ReportResponse{
		ID:                     report.ID,
		UserID:                 report.UserID,
		Latitude:               report.Latitude,
		Longitude:              report.Longitude,
		Address:                report.Address,
		Severity:               string(report.Severity),
		Description:            report.Description,
		WaterDepthCM:           report.WaterDepthCM,
		ImageURLs:              nonNil(report.ImageURLs),
		VideoURLs:              nonNil(report.VideoURLs),
		VerificationStatus:     string(report.VerificationStatus),
		AIConfidenceScore:      report.AIConfidenceScore,
		CommunityVerifications: report.CommunityVerifications,
		CreatedAt:              report.CreatedAt,
		VerifiedAt:             report.VerifiedAt,
	}
}

func ModelsToReportResponses(reports []*models.Report) []ReportResponse {
	responses := make([]ReportResponse, 0, len(reports))
	for _, report := range reports {
		responses = append(responses, ModelToReportResponse(report))
	}
	return responses
}

func DTOToUserUpdate(dto UpdateUserRequest) models.UserUpdate {
	return models.UserUpdate{
		LanguageCode:    dto.LanguageCode,
		Latitude:        dto.Latitude,
		Longitude:       dto.Longitude,
		AlertSubscribed: dto.AlertSubscribed,
		AlertRadiusKM:   dto.AlertRadiusKM,
	}
}

func ModelToUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:               user.ID,
		PhoneNumber:      user.PhoneNumber,
		Platform:         string(user.Platform),
		LanguageCode:     user.LanguageCode,
		Latitude:         user.Latitude,
		Longitude:        user.Longitude,
		AlertSubscribed:  user.AlertSubscribed,
		AlertRadiusKM:    user.AlertRadiusKM,
		CredibilityScore: user.CredibilityScore,
		CreatedAt:        user.CreatedAt,
		LastActive:       user.LastActive,
	}
}

func ModelsToUserResponses(users []*models.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, ModelToUserResponse(user))
	}
	return responses
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
