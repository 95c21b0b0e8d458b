package toolstream

// The assistant's directive vocabulary. The wire names are load-bearing:
// models are prompted with these exact tokens and existing consumers match
// them bit-exact, so they are uppercase underscore-separated by contract.
const (
	// Knowledge and records.
	ToolSearch        ToolName = "SEARCH"         // patient-friendly clinical guidance
	ToolGuidance      ToolName = "GUIDANCE"       // alias of SEARCH
	ToolSearchPubMed  ToolName = "SEARCH_PUBMED"  // academic research lookup
	ToolReadHistory   ToolName = "READ_HISTORY"   // keyword search of past records
	ToolGetProfile    ToolName = "GET_PROFILE"    // conditions, medications, allergies
	ToolAnalyzeHealth ToolName = "ANALYZE_HEALTH" // combined topic analysis

	// Physicians and booking.
	ToolMyPhysician     ToolName = "MY_PHYSICIAN"
	ToolSearchPhysician ToolName = "SEARCH_PHYSICIAN"
	ToolFindProviders   ToolName = "FIND_PROVIDERS"
	ToolBookAppointment ToolName = "BOOK_APPOINTMENT"
	ToolCallPhysician   ToolName = "CALL_PHYSICIAN" // voice call booking
	ToolAddCalendar     ToolName = "ADD_CALENDAR"
	ToolSavePhysician   ToolName = "SAVE_PHYSICIAN"

	// Vitals, goals, summaries.
	ToolGetSummaries ToolName = "GET_SUMMARIES"
	ToolSaveSummary  ToolName = "SAVE_SUMMARY"
	ToolWatchVitals  ToolName = "WATCH_VITALS"
	ToolGetGoals     ToolName = "GET_GOALS"
	ToolSetGoal      ToolName = "SET_GOAL"
	ToolLocate       ToolName = "LOCATE"
	ToolLocateAlias  ToolName = "LOCATE_FACILITY" // alias of LOCATE

	// Emergency.
	ToolAlert                ToolName = "ALERT"
	ToolCheckVitals          ToolName = "CHECK_VITALS"
	ToolFindHospital         ToolName = "FIND_HOSPITAL"
	ToolDispatchEmergency    ToolName = "DISPATCH_EMERGENCY"
	ToolEmergencyResponse    ToolName = "EMERGENCY_RESPONSE"
	ToolEmergencyCall        ToolName = "EMERGENCY_CALL"
	ToolCallEmergency        ToolName = "CALL_EMERGENCY" // alias of EMERGENCY_CALL
	ToolGetEmergencyContacts ToolName = "GET_EMERGENCY_CONTACTS"

	// Advanced.
	ToolSimulateECG      ToolName = "SIMULATE_ECG"
	ToolAwardXP          ToolName = "AWARD_XP"
	ToolGetBriefing      ToolName = "GET_BRIEFING"
	ToolCheckSafety      ToolName = "CHECK_SAFETY"
	ToolLifestylePlan    ToolName = "LIFESTYLE_PLAN"
	ToolLifestylePlanOpt ToolName = "OPTIMIZE_LIFESTYLE" // alias of LIFESTYLE_PLAN
)

// AssistantToolNames returns the closed directive set of the assistant,
// aliases included. Pass to NewScanner when building a scanner without a
// Dispatcher (a Session derives the set from its Dispatcher instead).
func AssistantToolNames() []ToolName {
	return []ToolName{
		ToolSearch, ToolGuidance, ToolSearchPubMed, ToolReadHistory,
		ToolGetProfile, ToolAnalyzeHealth,
		ToolMyPhysician, ToolSearchPhysician, ToolFindProviders,
		ToolBookAppointment, ToolCallPhysician, ToolAddCalendar, ToolSavePhysician,
		ToolGetSummaries, ToolSaveSummary, ToolWatchVitals,
		ToolGetGoals, ToolSetGoal, ToolLocate, ToolLocateAlias,
		ToolAlert, ToolCheckVitals, ToolFindHospital, ToolDispatchEmergency,
		ToolEmergencyResponse, ToolEmergencyCall, ToolCallEmergency,
		ToolGetEmergencyContacts,
		ToolSimulateECG, ToolAwardXP, ToolGetBriefing, ToolCheckSafety,
		ToolLifestylePlan, ToolLifestylePlanOpt,
	}
}

// AssistantAliases maps alternate directive names to their canonical tool.
// Register with Dispatcher.RegisterAlias after registering the canonical
// handlers.
func AssistantAliases() map[ToolName]ToolName {
	return map[ToolName]ToolName{
		ToolGuidance:         ToolSearch,
		ToolLocateAlias:      ToolLocate,
		ToolCallEmergency:    ToolEmergencyCall,
		ToolLifestylePlanOpt: ToolLifestylePlan,
	}
}
