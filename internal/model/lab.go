package model

import (
	"time"

	"github.com/google/uuid"
)

type Laboratory struct {
	Base
	Name           string     `json:"name" db:"name"`
	Code           string     `json:"code" db:"code"`
	DepartmentID   uuid.UUID  `json:"department_id" db:"department_id"`
	LabManagerID   *uuid.UUID `json:"lab_manager_id,omitempty" db:"lab_manager_id"`
	Location       string     `json:"location" db:"location"`
	PhoneExtension string     `json:"phone_extension,omitempty" db:"phone_extension"`
}

type TestCategory string

const (
	TestHematology     TestCategory = "hematology"
	TestBiochemistry   TestCategory = "biochemistry"
	TestMicrobiology   TestCategory = "microbiology"
	TestParasitology   TestCategory = "parasitology"
	TestImmunology     TestCategory = "immunology"
	TestHistopathology TestCategory = "histopathology"
	TestCytology       TestCategory = "cytology"
	TestMolecular      TestCategory = "molecular"
	TestEndocrinology  TestCategory = "endocrinology"
	TestToxicology     TestCategory = "toxicology"
)

type SampleType string

const (
	SampleBlood  SampleType = "blood"
	SampleSerum  SampleType = "serum"
	SamplePlasma SampleType = "plasma"
	SampleUrine  SampleType = "urine"
	SampleStool  SampleType = "stool"
	SampleCSF    SampleType = "csf"
	SampleSputum SampleType = "sputum"
	SampleSwab   SampleType = "swab"
	SampleTissue SampleType = "tissue"
	SampleFluid  SampleType = "fluid"
)

type LabTest struct {
	Base
	TestName     string       `json:"test_name" db:"test_name"`
	TestCode     string       `json:"test_code" db:"test_code"`
	Category     TestCategory `json:"category" db:"category"`
	LaboratoryID uuid.UUID    `json:"laboratory_id" db:"laboratory_id"`

	SampleType          SampleType `json:"sample_type" db:"sample_type"`
	SampleVolume        string     `json:"sample_volume,omitempty" db:"sample_volume"`
	ContainerType       string     `json:"container_type,omitempty" db:"container_type"`
	SpecialRequirements string     `json:"special_requirements,omitempty" db:"special_requirements"`

	NormalRangeMale      string `json:"normal_range_male,omitempty" db:"normal_range_male"`
	NormalRangeFemale    string `json:"normal_range_female,omitempty" db:"normal_range_female"`
	NormalRangePediatric string `json:"normal_range_pediatric,omitempty" db:"normal_range_pediatric"`
	Unit                 string `json:"unit,omitempty" db:"unit"`
	Methodology          string `json:"methodology,omitempty" db:"methodology"`

	TurnaroundTime    int     `json:"turnaround_time" db:"turnaround_time"`
	Price             float64 `json:"price" db:"price"`
	IsUrgentAvailable bool    `json:"is_urgent_available" db:"is_urgent_available"`
	UrgentSurcharge   float64 `json:"urgent_surcharge" db:"urgent_surcharge"`

	FastingRequired         bool   `json:"fasting_required" db:"fasting_required"`
	PreparationInstructions string `json:"preparation_instructions,omitempty" db:"preparation_instructions"`
}

type LabOrderStatus string

const (
	LabOrderOrdered         LabOrderStatus = "ordered"
	LabOrderSampleCollected LabOrderStatus = "sample_collected"
	LabOrderSampleReceived  LabOrderStatus = "sample_received"
	LabOrderInProgress      LabOrderStatus = "in_progress"
	LabOrderCompleted       LabOrderStatus = "completed"
	LabOrderVerified        LabOrderStatus = "verified"
	LabOrderReported        LabOrderStatus = "reported"
	LabOrderCancelled       LabOrderStatus = "cancelled"
	LabOrderRejected        LabOrderStatus = "rejected"
)

type Priority string

const (
	PriorityRoutine Priority = "routine"
	PriorityUrgent  Priority = "urgent"
	PriorityStat    Priority = "stat"
)

type LabOrder struct {
	Base
	OrderNumber      string     `json:"order_number" db:"order_number"`
	PatientID        uuid.UUID  `json:"patient_id" db:"patient_id"`
	OrderingDoctorID uuid.UUID  `json:"ordering_doctor_id" db:"ordering_doctor_id"`
	MedicalRecordID  *uuid.UUID `json:"medical_record_id,omitempty" db:"medical_record_id"`
	AdmissionID      *uuid.UUID `json:"admission_id,omitempty" db:"admission_id"`

	OrderDate           time.Time      `json:"order_date" db:"order_date"`
	Priority            Priority       `json:"priority" db:"priority"`
	Status              LabOrderStatus `json:"status" db:"status"`
	ClinicalInformation string         `json:"clinical_information,omitempty" db:"clinical_information"`
	ProvisionalDx       string         `json:"provisional_diagnosis,omitempty" db:"provisional_diagnosis"`

	SampleCollectedDate *time.Time `json:"sample_collected_date,omitempty" db:"sample_collected_date"`
	SampleCollectedBy   *uuid.UUID `json:"sample_collected_by,omitempty" db:"sample_collected_by"`
	SampleReceivedDate  *time.Time `json:"sample_received_date,omitempty" db:"sample_received_date"`
	SampleCondition     string     `json:"sample_condition,omitempty" db:"sample_condition"`

	AnalysisStartDate      *time.Time `json:"analysis_start_date,omitempty" db:"analysis_start_date"`
	AnalysisCompletionDate *time.Time `json:"analysis_completion_date,omitempty" db:"analysis_completion_date"`
	VerifiedBy             *uuid.UUID `json:"verified_by,omitempty" db:"verified_by"`
	VerifiedDate           *time.Time `json:"verified_date,omitempty" db:"verified_date"`
	ReportedDate           *time.Time `json:"reported_date,omitempty" db:"reported_date"`

	TotalCost float64 `json:"total_cost" db:"total_cost"`

	Results []*LabResult `json:"results,omitempty" db:"-"`
}

type ResultStatus string

const (
	ResultPending     ResultStatus = "pending"
	ResultPreliminary ResultStatus = "preliminary"
	ResultFinal       ResultStatus = "final"
	ResultAmended     ResultStatus = "amended"
	ResultCancelled   ResultStatus = "cancelled"
)

type LabResult struct {
	Base
	LabOrderID uuid.UUID `json:"lab_order_id" db:"lab_order_id"`
	TestID     uuid.UUID `json:"test_id" db:"test_id"`

	ResultValue    string       `json:"result_value" db:"result_value"`
	ReferenceRange string       `json:"reference_range,omitempty" db:"reference_range"`
	Unit           string       `json:"unit,omitempty" db:"unit"`
	Status         ResultStatus `json:"status" db:"status"`

	IsAbnormal     bool   `json:"is_abnormal" db:"is_abnormal"`
	AbnormalFlag   string `json:"abnormal_flag,omitempty" db:"abnormal_flag"`
	Interpretation string `json:"interpretation,omitempty" db:"interpretation"`
	Comments       string `json:"comments,omitempty" db:"comments"`

	AnalyzedBy    *uuid.UUID `json:"analyzed_by,omitempty" db:"analyzed_by"`
	AnalysisDate  *time.Time `json:"analysis_date,omitempty" db:"analysis_date"`
	EquipmentUsed string     `json:"equipment_used,omitempty" db:"equipment_used"`

	VerifiedBy       *uuid.UUID `json:"verified_by,omitempty" db:"verified_by"`
	VerificationDate *time.Time `json:"verification_date,omitempty" db:"verification_date"`
}

type OrderLabTestsRequest struct {
	PatientID           uuid.UUID   `json:"patient_id" binding:"required"`
	OrderingDoctorID    uuid.UUID   `json:"ordering_doctor_id" binding:"required"`
	MedicalRecordID     *uuid.UUID  `json:"medical_record_id"`
	AdmissionID         *uuid.UUID  `json:"admission_id"`
	Priority            Priority    `json:"priority"`
	ClinicalInformation string      `json:"clinical_information"`
	ProvisionalDx       string      `json:"provisional_diagnosis"`
	TestIDs             []uuid.UUID `json:"test_ids" binding:"required,min=1"`
}

type EnterResultRequest struct {
	ResultValue    string     `json:"result_value" binding:"required"`
	ReferenceRange string     `json:"reference_range"`
	Unit           string     `json:"unit"`
	IsAbnormal     bool       `json:"is_abnormal"`
	AbnormalFlag   string     `json:"abnormal_flag"`
	Interpretation string     `json:"interpretation"`
	Comments       string     `json:"comments"`
	AnalyzedBy     *uuid.UUID `json:"analyzed_by"`
	EquipmentUsed  string     `json:"equipment_used"`
}
